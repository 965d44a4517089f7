// Package email sends transactional mail about subscription lifecycle
// changes.
//
// Two Sender implementations are provided. PostmarkSender delivers through
// the Postmark API; LogSender only writes the message to the logger and is
// used in development or when no Postmark token is configured.
//
// Bodies are rendered from the templates in the templates sub-package.
package email
