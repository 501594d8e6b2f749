// Package translate renders user-facing messages for the GRISC toolchain
// in the language of the host locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fallback is the language used when the host locale cannot be determined.
var Fallback = language.AmericanEnglish

var printer *message.Printer

func init() {
	tag := Fallback

	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("grisc: locale: %v", err)
	}
	if len(locales) != 0 {
		tag = message.MatchLanguage(locales...)
	}

	printer = message.NewPrinter(tag)
}

// From formats an en-US Sprintf() style message in the host language.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
