// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package mailer declares the outbound-mail collaborator boundary.
//
// SMTP mail delivery for password resets is deliberately out of scope (§1):
// this package specifies only the Mailer interface, in the same
// interface-as-boundary shape as user.SessionSigner. No SMTP client is
// implemented here, user.Service takes no Mailer, and nothing in the module
// calls Send.
package mailer

import "context"

// Message is a single outbound mail, addressed by recipient email rather
// than by user id so a Mailer implementation never needs repository access.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends a single Message. Implementations are expected to be
// fire-and-forget from the caller's perspective: a password-reset request
// should not fail the HTTP response just because the mail provider is
// briefly unavailable, so callers typically log a Send error rather than
// surface it to the end user.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
