// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package contact implements the showroom contact form.

Core Responsibility:

  - Form: validation of the visitor's message, Kenyan phone numbers included.
  - Dispatcher: simulated delivery after a fixed delay, with a configurable
    failure rate. Nothing leaves the process.
  - Auto-reply: the acknowledgement the dealer would send, as a mailto link.

Attachments are recorded as metadata only.
*/
package contact

import (
	"net/url"
	"strings"
	"time"
)

// # Message Types

// MessageType is the subject selector of the contact form.
type MessageType string

const (
	TypeInquiry     MessageType = "inquiry"
	TypeTestDrive   MessageType = "test-drive"
	TypeFinancing   MessageType = "financing"
	TypeMaintenance MessageType = "maintenance"
	TypeSell        MessageType = "sell"
	TypeOther       MessageType = "other"
)

// MessageTypes lists the selectable types in form order.
func MessageTypes() []MessageType {
	return []MessageType{TypeInquiry, TypeTestDrive, TypeFinancing, TypeMaintenance, TypeSell, TypeOther}
}

// IsValid reports whether t is a recognised [MessageType].
func (t MessageType) IsValid() bool {
	for _, known := range MessageTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Label is the human form of the type used in the auto-reply.
func (t MessageType) Label() string {
	switch t {
	case TypeTestDrive:
		return "Test Drive"
	case TypeSell:
		return "Sell My Car"
	case "":
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// VehicleOther is the vehicle selector value for "none of these".
const VehicleOther = "other"

// # Form

// Attachment describes an uploaded file. Contents are never kept.
type Attachment struct {
	Name        string `json:"name"         validate:"required,max=255"`
	Size        int64  `json:"size"         validate:"gte=0"`
	ContentType string `json:"content_type" validate:"max=100"`
}

// Form is the contact payload.
type Form struct {
	Name        string       `json:"name"         validate:"required,min=2,max=100"`
	Phone       string       `json:"phone"        validate:"required,kephone"`
	Email       string       `json:"email"        validate:"required,email,max=254"`
	MessageType MessageType  `json:"message_type" validate:"required,oneof=inquiry test-drive financing maintenance sell other"`
	VehicleID   string       `json:"vehicle_id"   validate:"max=64"`
	Message     string       `json:"message"      validate:"required,max=2000"`
	Agreement   bool         `json:"agreement"    validate:"required"`
	Attachments []Attachment `json:"attachments"  validate:"max=5,dive"`
}

// Trim removes surrounding whitespace from every text field.
func (form Form) Trim() Form {
	form.Name = strings.TrimSpace(form.Name)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Email = strings.TrimSpace(form.Email)
	form.MessageType = MessageType(strings.TrimSpace(string(form.MessageType)))
	form.VehicleID = strings.TrimSpace(form.VehicleID)
	form.Message = strings.TrimSpace(form.Message)
	return form
}

// Prefill seeds a blank form from the inquiry and car URL parameters.
// Unknown inquiry types are ignored, as are car IDs that exists rejects.
func Prefill(values url.Values, exists func(id string) bool) Form {
	var form Form

	if kind := MessageType(strings.TrimSpace(values.Get("inquiry"))); kind.IsValid() {
		form.MessageType = kind
	}
	if id := strings.TrimSpace(values.Get("car")); id != "" && exists != nil && exists(id) {
		form.VehicleID = id
	}

	return form
}

// # Records

// Status is the delivery state of a submission.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

// Record is what the visitor's submission history keeps.
type Record struct {
	Ticket       string       `json:"ticket"`
	Name         string       `json:"name"`
	Phone        string       `json:"phone"` // E.164
	Email        string       `json:"email"`
	MessageType  MessageType  `json:"message_type"`
	VehicleID    string       `json:"vehicle_id,omitempty"`
	VehicleTitle string       `json:"vehicle_title,omitempty"`
	Message      string       `json:"message"`
	Attachments  []Attachment `json:"attachments,omitempty"`
	Status       Status       `json:"status"`
	Error        string       `json:"error,omitempty"`
	SubmittedAt  time.Time    `json:"submitted_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}
