// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"strings"

	"github.com/taibuivan/autoluxe/internal/catalog"
	"github.com/taibuivan/autoluxe/internal/platform/phone"
)

// AutoReply is the acknowledgement a visitor would receive by email.
type AutoReply struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Link    string `json:"link"` // mailto: preview
}

// BuildAutoReply renders the acknowledgement for record, quoting dealerPhone for urgent questions.
func BuildAutoReply(record Record, dealerPhone string) AutoReply {
	label := record.MessageType.Label()
	subject := "Thank you for contacting AutoLuxe Kenya - " + label

	var body strings.Builder
	body.WriteString("Dear " + record.Name + ",\n\n")
	body.WriteString("Thank you for contacting AutoLuxe Kenya. We have received your " + strings.ToLower(label) + " inquiry.\n\n")
	body.WriteString("Our team will review your message and contact you within 24 hours.\n\n")
	body.WriteString("Inquiry Details:\n")
	body.WriteString("- Name: " + record.Name + "\n")
	body.WriteString("- Phone: " + record.Phone + "\n")
	body.WriteString("- Inquiry Type: " + label + "\n")
	if record.VehicleTitle != "" {
		body.WriteString("- Car: " + record.VehicleTitle + "\n")
	}
	body.WriteString("\nIf you have any urgent questions, please call us at " + phone.National(dealerPhone) + " or WhatsApp us.\n\n")
	body.WriteString("Best regards,\nAutoLuxe Kenya Team")

	return AutoReply{
		To:      record.Email,
		Subject: subject,
		Body:    body.String(),
		Link:    catalog.MailURL(record.Email, subject, body.String()),
	}
}
