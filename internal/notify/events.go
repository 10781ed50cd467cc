package notify

import (
	"fmt"

	"github.com/avelkov/spreadwatch/internal/domain"
)

// FormatSignal renders a divergence signal as a title and message body for
// operator channels.
func FormatSignal(sig domain.Signal) (title, message string) {
	title = fmt.Sprintf("Divergence %.2f%% on %s", sig.DivergencePct, sig.Symbol)
	message = fmt.Sprintf(
		"%s: %.8g\n%s: %.8g\ndetected at %s",
		sig.RefVenue, sig.RefPrice,
		sig.OtherVenue, sig.OtherPrice,
		sig.DetectedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
	)
	return title, message
}

// FormatOutcome renders the gate's decision for a signal.
func FormatOutcome(sig domain.Signal, out domain.TradeOutcome) (title, message string) {
	switch out.Status {
	case domain.OutcomeOpened:
		title = fmt.Sprintf("Opened %s %s", out.Direction, out.Symbol)
		message = fmt.Sprintf("quantity %.8g at %.0fx leverage\ntriggered by %.2f%% divergence",
			out.Quantity, out.Leverage, sig.DivergencePct)
	case domain.OutcomeSkipped:
		title = fmt.Sprintf("Skipped trade on %s", sig.Symbol)
		message = out.Reason
	case domain.OutcomeFailed:
		title = fmt.Sprintf("Trade failed on %s", sig.Symbol)
		message = out.Err.Error()
	default:
		title = fmt.Sprintf("Unknown outcome on %s", sig.Symbol)
		message = out.Status.String()
	}
	return title, message
}
