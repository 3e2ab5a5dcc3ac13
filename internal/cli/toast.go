package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/pdfchat/internal/toast"
)

var ansiColors = map[toast.Kind]string{
	toast.KindInfo:    "\033[34m",
	toast.KindSuccess: "\033[32m",
	toast.KindError:   "\033[31m",
	toast.KindWarning: "\033[33m",
}

// ToastPrinter returns a toast sink that prints each toast to w, colored when color is set.
func ToastPrinter(w io.Writer, color bool) func(toast.Toast) {
	return func(t toast.Toast) {
		label := strings.ToUpper(string(t.Kind))
		msg := strings.ReplaceAll(t.Message, "\n", "\n  ")
		if color {
			fmt.Fprintf(w, "%s[%s]\033[0m %s\n", ansiColors[t.Kind], label, msg)
			return
		}
		fmt.Fprintf(w, "[%s] %s\n", label, msg)
	}
}
