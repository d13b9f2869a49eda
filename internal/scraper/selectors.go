package scraper

// Element ids on the booking form and results page.
const (
	FromInputID      = "T7-from"
	ToInputID        = "T7-to"
	DepartureInputID = "T7-departure_1"
	ReturnInputID    = "T7-arrival_1"
	PassengersID     = "T7-passengers"
	AdultsSelectID   = "adults"
	PromoInputID     = "T7-promo"
	SearchButtonID   = "T7-search"

	// Present once the outbound results calendar has rendered.
	ResultsMarkerID = "flightDetailForm_outbound:calendarInitiator_OutBound"
)

// FormDateLayout is the textual date format the form accepts.
const FormDateLayout = "02 Jan 2006"

// outcomeScript resolves to "results" or "no-flights" once either marker is
// on the page, and to false before that.
const outcomeScript = `(() => {
	if (document.getElementById(%q)) return "results";
	const text = %q;
	if (Array.from(document.querySelectorAll("li")).some(li => li.textContent.includes(text))) return "no-flights";
	return false;
})()`

const selectIndexScript = `(() => {
	const el = document.getElementById(%q);
	if (!el || el.options.length <= %d) return false;
	el.selectedIndex = %d;
	el.dispatchEvent(new Event("change", { bubbles: true }));
	return true;
})()`
