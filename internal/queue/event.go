// Package queue defines message payloads exchanged over the message broker
// and the background consumer that delivers them.
package queue

// OTPMailQueueName is the durable queue carrying outbound one-time-code mail.
const OTPMailQueueName = "otp.email"

// OTPMailEvent is published whenever an account needs a one-time code
// delivered by email (registration verification or password reset).  The
// consumer turns it into an SMTP message; publishing is best-effort and a
// lost event never fails the request that produced it.
type OTPMailEvent struct {
	Email      string `json:"email"`
	Code       string `json:"code"`
	Subject    string `json:"subject"`
	BodyPrefix string `json:"body_prefix"`
	QueuedAt   string `json:"queued_at"`
}
