// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// # Outbound Messages
//
// Message text is generated on every call so it always reflects the current
// listing; nothing is cached on the vehicle.

// Currency is the display prefix for every price.
const Currency = "KES"

// FormatAmount renders a whole-shilling amount with thousands separators ("1,685,000").
func FormatAmount(amount int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", amount)
}

// FormatPrice renders the compact card price: "KES 16.5M", "KES 850K" or "KES 900".
func FormatPrice(price int64) string {
	switch {
	case price >= 1_000_000:
		return fmt.Sprintf("%s %.1fM", Currency, float64(price)/1_000_000)
	case price >= 1_000:
		return fmt.Sprintf("%s %.0fK", Currency, float64(price)/1_000)
	}
	return fmt.Sprintf("%s %d", Currency, price)
}

// WhatsAppMessage is the prefilled chat text for an inquiry about v.
func WhatsAppMessage(v Vehicle) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "Hello! I'm interested in the %s.\n", v.Title())
	fmt.Fprintf(&builder, "Price: %s %s\n", Currency, FormatAmount(v.Price))
	fmt.Fprintf(&builder, "Mileage: %s\n", v.Mileage)
	fmt.Fprintf(&builder, "Location: %s\n", v.Location)
	fmt.Fprintf(&builder, "Fuel Type: %s\n", v.FuelType)
	fmt.Fprintf(&builder, "Transmission: %s\n", v.Transmission)
	fmt.Fprintf(&builder, "Engine: %s\n", v.Engine)
	fmt.Fprintf(&builder, "Please share more details and availability. Reference: %s", v.ID)

	return builder.String()
}

// SMSMessage is the short prefilled text-message body for v.
func SMSMessage(v Vehicle) string {
	return fmt.Sprintf("INQUIRY: %s. %s %.1fM. %s. %s. Ref: %s",
		v.Title(), Currency, float64(v.Price)/1_000_000, v.Mileage, v.Location, v.ID)
}

// EmailSubject is the subject line of a mail inquiry about v.
func EmailSubject(v Vehicle) string {
	return fmt.Sprintf("Inquiry: %s (%s)", v.Title(), v.ID)
}
