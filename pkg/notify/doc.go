// Package notify implements the alert delivery channels used by the alert
// router: a JSON-lines log file, a buffered Telegram summary, SMTP e-mail and
// an in-process event broker. Channels that are not configured are disabled
// and accept alerts without doing anything.
package notify
