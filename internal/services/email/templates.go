package email

import (
	"fmt"
	"html"
)

// ReturnConfirmationData feeds the return-created template.
type ReturnConfirmationData struct {
	CustomerEmail  string
	ReturnID       string
	OrderID        string
	RefundMethod   string
	RefundAmount   int64 // minor units
	QRCodeURL      string
	TrackingNumber string
}

// ReturnProcessedData feeds the refund-finished template.
type ReturnProcessedData struct {
	CustomerEmail string
	ReturnID      string
	OrderID       string
	RefundMethod  string
	RefundAmount  int64 // minor units
	PointsAdded   int
}

// PointsEarnedData feeds the points-credit template.
type PointsEarnedData struct {
	CustomerEmail string
	OrderID       string
	Points        int
}

func formatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d PLN", minor/100, minor%100)
}

func renderReturnConfirmation(d ReturnConfirmationData) string {
	label := ""
	if d.QRCodeURL != "" {
		label = fmt.Sprintf(
			`<p>Show this QR code at any parcel point: <a href="%s">%s</a></p><p>Tracking number: %s</p>`,
			html.EscapeString(d.QRCodeURL), html.EscapeString(d.QRCodeURL), html.EscapeString(d.TrackingNumber))
	} else {
		label = `<p>Your shipping label is being prepared and will follow in a separate email.</p>`
	}
	return fmt.Sprintf(
		`<h2>Return confirmed</h2>
<p>We registered return <strong>%s</strong> for order <strong>%s</strong>.</p>
<p>Refund: %s via %s.</p>
%s`,
		html.EscapeString(d.ReturnID), html.EscapeString(d.OrderID),
		formatAmount(d.RefundAmount), html.EscapeString(d.RefundMethod), label)
}

func renderReturnProcessed(d ReturnProcessedData) string {
	detail := fmt.Sprintf("<p>%s has been refunded to your card.</p>", formatAmount(d.RefundAmount))
	if d.PointsAdded > 0 {
		detail = fmt.Sprintf("<p><strong>%d loyalty points</strong> (value %s) were added to your account.</p>",
			d.PointsAdded, formatAmount(d.RefundAmount))
	}
	return fmt.Sprintf(
		`<h2>Return processed</h2>
<p>Return <strong>%s</strong> for order <strong>%s</strong> is complete.</p>
%s`,
		html.EscapeString(d.ReturnID), html.EscapeString(d.OrderID), detail)
}

func renderPointsEarned(d PointsEarnedData) string {
	return fmt.Sprintf(
		`<h2>Points earned</h2>
<p>You earned <strong>%d points</strong> for order <strong>%s</strong>. Thank you!</p>`,
		d.Points, html.EscapeString(d.OrderID))
}
