/*
Package health probes the external services alert notifications depend on.

A Checker reaches one dependency: HTTPChecker for the Telegram Bot API
(getMe), TCPChecker for the SMTP relay. A Monitor runs its checkers on an
interval and reports each result through a callback, which the serve
command points at the metrics health registry. Probed transports appear in
/health but never gate /ready.

	┌──────────┐  every Interval   ┌──────────────┐
	│ Monitor  │──────────────────►│ HTTPChecker  │──► GET <api>/bot<token>/getMe
	│          │──────────────────►│ TCPChecker   │──► dial smtp-host:port
	└────┬─────┘                   └──────────────┘
	     │ ReportFunc(name, healthy, message)
	     ▼
	metrics.UpdateComponent

A dependency turns unhealthy after Config.Retries consecutive failures and
healthy again on the first success. Failure messages never include the
probed URL, since the Telegram URL embeds the bot token.
*/
package health
