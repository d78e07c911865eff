package pages

import "fmt"

// Strategy is the lookup mechanism of a Locator. The set is closed: pages
// declare their locators as package-level constants built from the
// helpers below, and tests never see them.
type Strategy int

const (
	ByCSS Strategy = iota
	ByXPath
	ByTestID
	ByText
)

// Locator names one DOM element: a (strategy, query) pair plus the
// human-readable label used in logs, failures and screenshot names.
type Locator struct {
	strategy Strategy
	query    string
	label    string
}

// Label returns the human-readable name of the element.
func (l Locator) Label() string { return l.label }

// Selector renders the locator in the driver's selector syntax.
func (l Locator) Selector() string {
	switch l.strategy {
	case ByXPath:
		return "xpath=" + l.query
	case ByTestID:
		return fmt.Sprintf(`[data-testid="%s"]`, l.query)
	case ByText:
		return "text=" + l.query
	default:
		return l.query
	}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s (%s)", l.label, l.Selector())
}

func css(query, label string) Locator {
	return Locator{strategy: ByCSS, query: query, label: label}
}

func xpath(query, label string) Locator {
	return Locator{strategy: ByXPath, query: query, label: label}
}

func testID(id, label string) Locator {
	return Locator{strategy: ByTestID, query: id, label: label}
}

func byText(text, label string) Locator {
	return Locator{strategy: ByText, query: text, label: label}
}
