package useragent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sessionkit/pkg/useragent"
)

func TestIsBot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userAgent string
		want      bool
	}{
		{
			"chrome on mac",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			false,
		},
		{
			"firefox on linux",
			"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			false,
		},
		{
			"safari on iphone",
			"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Version/17.0 Mobile/15E148 Safari/604.1",
			false,
		},
		{
			"googlebot",
			"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			true,
		},
		{
			"bingbot",
			"Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)",
			true,
		},
		{"curl", "curl/8.4.0", true},
		{"wget", "Wget/1.21.4", true},
		{"python requests", "python-requests/2.31.0", true},
		{"headless chrome", "Mozilla/5.0 HeadlessChrome/120.0.0.0", true},
		{
			"facebook preview fetcher",
			"facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)",
			true,
		},
		{"uptime monitor", "UptimeMonitor/1.0", true},
		{"empty user agent", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, useragent.IsBot(tt.userAgent))
		})
	}
}

func TestBotName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{
			"googlebot",
			"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			"Googlebot",
		},
		{
			"facebook",
			"facebookexternalhit/1.1",
			"Facebook",
		},
		{
			"generic bot suffix",
			"Mozilla/5.0 (compatible; SomethingNewBot/1.0)",
			"Somethingnewbot",
		},
		{
			"spider suffix",
			"Mozilla/5.0 (compatible; Baiduspider/2.0)",
			"Baiduspider",
		},
		{
			"nothing recognizable",
			"curl/8.4.0",
			"Unknown Bot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, useragent.BotName(tt.userAgent))
		})
	}
}
