package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dharmasatrya/flightsearch/internal/models"
	"github.com/dharmasatrya/flightsearch/internal/store"
	"github.com/dharmasatrya/flightsearch/internal/suggest"
	"github.com/dharmasatrya/flightsearch/internal/timefmt"
)

type formField int

const (
	fieldTripType formField = iota
	fieldOrigin
	fieldDestination
	fieldDepart
	fieldReturn
	fieldAdults
	fieldChildren
	fieldInfants
	fieldCabin
	fieldCount
)

var fieldLabels = map[formField]string{
	fieldTripType:    "Trip",
	fieldOrigin:      "From",
	fieldDestination: "To",
	fieldDepart:      "Depart",
	fieldReturn:      "Return",
	fieldAdults:      "Adults",
	fieldChildren:    "Children",
	fieldInfants:     "Infants",
	fieldCabin:       "Cabin",
}

type form struct {
	focus formField
	// pointers keep the text input state shared across model copies
	inputs  map[formField]*textinput.Model
	options map[formField][]models.Location
	pick    int
	err     string
}

func newInput(placeholder string, limit int) *textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 32
	ti.Prompt = ""
	return &ti
}

func newForm(q models.SearchQuery) form {
	f := form{
		focus: fieldOrigin,
		inputs: map[formField]*textinput.Model{
			fieldOrigin:      newInput("City or airport", 64),
			fieldDestination: newInput("City or airport", 64),
			fieldDepart:      newInput("YYYY-MM-DD", 10),
			fieldReturn:      newInput("YYYY-MM-DD", 10),
		},
		options: map[formField][]models.Location{},
	}

	if q.Origin.IsSet() {
		f.inputs[fieldOrigin].SetValue(q.Origin.Label())
	}
	if q.Destination.IsSet() {
		f.inputs[fieldDestination].SetValue(q.Destination.Label())
	}
	if !q.DepartDate.IsZero() {
		f.inputs[fieldDepart].SetValue(timefmt.FormatDay(q.DepartDate))
	}
	if q.ReturnDate != nil {
		f.inputs[fieldReturn].SetValue(timefmt.FormatDay(*q.ReturnDate))
	}
	f.inputs[fieldOrigin].Focus()
	return f
}

func (f form) input(field formField) *textinput.Model {
	return f.inputs[field]
}

func isLocationField(field formField) bool {
	return field == fieldOrigin || field == fieldDestination
}

func (m Model) suggester(field formField) *suggest.Suggester {
	if field == fieldOrigin {
		return m.deps.Origins
	}
	return m.deps.Destinations
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := m.form.focus
	options := m.form.options[field]

	switch msg.String() {
	case "tab":
		return m.moveFocus(1), nil
	case "shift+tab":
		return m.moveFocus(-1), nil

	case "up":
		if len(options) > 0 && m.form.pick > 0 {
			m.form.pick--
			return m, nil
		}
		return m.moveFocus(-1), nil
	case "down":
		if len(options) > 0 && m.form.pick < len(options)-1 {
			m.form.pick++
			return m, nil
		}
		if len(options) == 0 {
			return m.moveFocus(1), nil
		}
		return m, nil

	case "enter":
		if isLocationField(field) && len(options) > 0 {
			return m.chooseLocation(field, options[m.form.pick]), nil
		}
		return m.startSearch()

	case "esc":
		if isLocationField(field) {
			m.form.options[field] = nil
			m.suggester(field).Reset()
		}
		if m.snap.Status != store.StatusIdle {
			m.view = viewResults
		}
		return m, nil

	case "ctrl+s":
		m.deps.Store.SwapOriginDestination()
		origin, destination := m.form.input(fieldOrigin).Value(), m.form.input(fieldDestination).Value()
		m.form.input(fieldOrigin).SetValue(destination)
		m.form.input(fieldDestination).SetValue(origin)
		m.form.options = map[formField][]models.Location{}
		m.refresh()
		return m, nil

	case "left", "right", "-", "+", " ":
		if _, isText := m.form.inputs[field]; !isText {
			delta := 1
			if msg.String() == "left" || msg.String() == "-" {
				delta = -1
			}
			return m.stepField(field, delta), nil
		}
	}

	ti := m.form.input(field)
	if ti == nil {
		return m, nil
	}

	before := ti.Value()
	updated, cmd := ti.Update(msg)
	*ti = updated
	after := ti.Value()
	if before == after {
		return m, cmd
	}

	switch field {
	case fieldOrigin, fieldDestination:
		m.setQuery(storeField(field), nil)
		m.form.pick = 0
		return m, tea.Batch(cmd, m.lookupCmd(field, after))
	case fieldDepart, fieldReturn:
		m.commitDate(field, after)
	}
	return m, cmd
}

func storeField(field formField) store.Field {
	switch field {
	case fieldOrigin:
		return store.FieldOrigin
	case fieldDestination:
		return store.FieldDestination
	case fieldDepart:
		return store.FieldDepartDate
	case fieldReturn:
		return store.FieldReturnDate
	case fieldAdults:
		return store.FieldAdults
	case fieldChildren:
		return store.FieldChildren
	case fieldInfants:
		return store.FieldInfants
	case fieldCabin:
		return store.FieldCabinClass
	default:
		return store.FieldTripType
	}
}

func (m *Model) setQuery(field store.Field, value interface{}) {
	if err := m.deps.Store.SetQueryField(field, value); err != nil {
		m.form.err = err.Error()
	} else {
		m.form.err = ""
	}
	m.refresh()
}

// commitDate stores a date once it is complete or cleared; partial input
// is left alone while the user is typing.
func (m *Model) commitDate(field formField, value string) {
	value = strings.TrimSpace(value)
	if value != "" && len(value) < len(models.DateLayout) {
		return
	}
	m.setQuery(storeField(field), value)
}

func (m Model) moveFocus(delta int) Model {
	if ti := m.form.input(m.form.focus); ti != nil {
		ti.Blur()
	}

	next := m.form.focus
	for {
		next = (next + formField(delta) + fieldCount) % fieldCount
		if next == fieldReturn && m.snap.Query.TripType != models.RoundTrip {
			continue
		}
		break
	}

	m.form.focus = next
	m.form.pick = 0
	if ti := m.form.input(next); ti != nil {
		ti.Focus()
	}
	return m
}

func (m Model) stepField(field formField, delta int) Model {
	q := m.snap.Query
	switch field {
	case fieldTripType:
		next := models.RoundTrip
		if q.TripType == models.RoundTrip {
			next = models.OneWay
		}
		m.setQuery(store.FieldTripType, next)
		if next == models.RoundTrip && q.ReturnDate == nil && !q.DepartDate.IsZero() {
			ret := q.DepartDate.AddDate(0, 0, 7)
			m.setQuery(store.FieldReturnDate, ret)
			m.form.input(fieldReturn).SetValue(timefmt.FormatDay(ret))
		}
	case fieldAdults:
		m.setQuery(store.FieldAdults, q.Adults+delta)
	case fieldChildren:
		m.setQuery(store.FieldChildren, q.Children+delta)
	case fieldInfants:
		m.setQuery(store.FieldInfants, q.Infants+delta)
	case fieldCabin:
		idx := 0
		for i, c := range models.CabinClasses {
			if c == q.CabinClass {
				idx = i
			}
		}
		n := len(models.CabinClasses)
		m.setQuery(store.FieldCabinClass, models.CabinClasses[(idx+delta+n)%n])
	}
	return m
}

func (m Model) chooseLocation(field formField, loc models.Location) Model {
	m.setQuery(storeField(field), loc)
	m.form.input(field).SetValue(loc.Label())
	m.form.input(field).CursorEnd()
	m.form.options[field] = nil
	m.form.pick = 0
	m.suggester(field).Reset()
	return m.moveFocus(1)
}

func (m Model) lookupCmd(field formField, text string) tea.Cmd {
	s := m.suggester(field)
	timeout := m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		options, err := s.Lookup(ctx, text)
		return suggestionsMsg{field: field, text: text, options: options, err: err}
	}
}

func (m Model) applySuggestions(msg suggestionsMsg) Model {
	if errors.Is(msg.err, suggest.ErrStale) {
		return m
	}
	if ti := m.form.input(msg.field); ti == nil || ti.Value() != msg.text {
		return m
	}
	if msg.err != nil {
		m.form.err = "Could not load airport suggestions."
		return m
	}
	m.form.options[msg.field] = msg.options
	m.form.pick = 0
	return m
}

func (m Model) formView() string {
	q := m.snap.Query
	var b strings.Builder

	for field := fieldTripType; field < fieldCount; field++ {
		if field == fieldReturn && q.TripType != models.RoundTrip {
			continue
		}

		label := fmt.Sprintf("%-9s", fieldLabels[field])
		if field == m.form.focus {
			label = selectedStyle.Render("› " + label)
		} else {
			label = "  " + label
		}

		var value string
		switch field {
		case fieldTripType:
			value = "‹ " + q.TripType.Label() + " ›"
		case fieldAdults:
			value = fmt.Sprintf("‹ %d ›", q.Adults)
		case fieldChildren:
			value = fmt.Sprintf("‹ %d ›", q.Children)
		case fieldInfants:
			value = fmt.Sprintf("‹ %d ›", q.Infants)
		case fieldCabin:
			value = "‹ " + q.CabinClass.Label() + " ›"
		default:
			value = m.form.input(field).View()
		}

		switch {
		case field == fieldOrigin && q.Origin.IsSet():
			value += " " + hint(q.Origin.SkyID)
		case field == fieldDestination && q.Destination.IsSet():
			value += " " + hint(q.Destination.SkyID)
		}

		b.WriteString(label + " " + value + "\n")

		if isLocationField(field) && field == m.form.focus {
			for i, opt := range m.form.options[field] {
				line := fmt.Sprintf("    %s (%s)", opt.Label(), opt.SkyID)
				if opt.Subtitle != "" {
					line += " " + hint(opt.Subtitle)
				}
				if i == m.form.pick {
					line = selectedStyle.Render(line)
				}
				b.WriteString(line + "\n")
			}
		}
	}

	if m.form.err != "" {
		b.WriteString("\n" + errorStyle.Render(m.form.err) + "\n")
	} else if m.snap.Status == store.StatusError && isValidation(m.snap.Err) {
		b.WriteString("\n" + errorStyle.Render(m.snap.ErrorMessage) + "\n")
	}

	b.WriteString("\n" + hint("tab/shift+tab move · ←/→ change · ctrl+s swap · enter search · ctrl+c quit"))
	return b.String()
}

func isValidation(err error) bool {
	var v models.ValidationError
	return errors.As(err, &v)
}
