// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/url"
	"strings"

	"github.com/taibuivan/autoluxe/internal/platform/phone"
)

// # Contact Links

// Links are the outbound contact actions for one listing.
type Links struct {
	Call     string `json:"call"`
	SMS      string `json:"sms"`
	WhatsApp string `json:"whatsapp"`
	Email    string `json:"email,omitempty"`
}

// Inquiry bundles a listing with its prefilled messages and contact links.
type Inquiry struct {
	VehicleID       string `json:"vehicle_id"`
	Title           string `json:"title"`
	Price           string `json:"price"`
	WhatsAppMessage string `json:"whatsapp_message"`
	SMSMessage      string `json:"sms_message"`
	Links           Links  `json:"links"`
}

// BuildInquiry generates the messages and links for v.
//
// The listing's own contact number is used, or fallbackPhone when it has none.
// The email link is omitted when dealerEmail is blank.
func BuildInquiry(v Vehicle, fallbackPhone, dealerEmail string) Inquiry {
	number := v.Contact
	if strings.TrimSpace(number) == "" {
		number = fallbackPhone
	}

	whatsapp := WhatsAppMessage(v)
	sms := SMSMessage(v)

	links := Links{
		Call:     CallURL(number),
		SMS:      SMSURL(number, sms),
		WhatsApp: WhatsAppURL(number, whatsapp),
	}
	if dealerEmail != "" {
		links.Email = MailURL(dealerEmail, EmailSubject(v), whatsapp)
	}

	return Inquiry{
		VehicleID:       v.ID,
		Title:           v.Title(),
		Price:           FormatPrice(v.Price),
		WhatsAppMessage: whatsapp,
		SMSMessage:      sms,
		Links:           links,
	}
}

// WhatsAppURL is a wa.me deep link with prefilled text.
func WhatsAppURL(number, text string) string {
	return "https://wa.me/" + phone.International(number) + "?text=" + EscapeComponent(text)
}

// SMSURL is an sms: link with a prefilled body.
func SMSURL(number, body string) string {
	return "sms:" + phone.NormalizeE164(number) + "?body=" + EscapeComponent(body)
}

// CallURL is a tel: link.
func CallURL(number string) string {
	return "tel:" + phone.NormalizeE164(number)
}

// MailURL is a mailto: link with subject and body.
func MailURL(address, subject, body string) string {
	return "mailto:" + address + "?subject=" + EscapeComponent(subject) + "&body=" + EscapeComponent(body)
}

// EscapeComponent percent-encodes s for a URI component, spaces as "%20".
func EscapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
