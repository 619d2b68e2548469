// Package useragent classifies HTTP User-Agent strings as bot or human
// traffic. The session middleware consumes only the boolean verdict; the
// BotName helper exists for logging and diagnostics.
//
//	if useragent.IsBot(r.UserAgent()) {
//		// short-lived session, no validity extension
//	}
package useragent
