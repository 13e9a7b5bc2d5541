package i18n

import "strings"

// Translator retrieves message templates for validator codes. data provides
// optional substitutions to embed in the message (for example, "upperbound"
// or "key"); templates reference them as {upperbound}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Only English
// ships here; embedders swap in their own Translator for anything beyond
// plain substitution.
type dictTranslator struct{}

func (dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch code {
	case "present":
		msg = "May not be blank."
	case "converted", "contained_in":
		msg = "Not a valid value."
	case "matches_regex":
		msg = "Must be a valid value."
	case "is_true":
		msg = "Must be true."
	case "is_false":
		msg = "Must be false."
	case "shorter_than":
		msg = "Must be shorter than {upperbound}."
	case "longer_than":
		msg = "Must be longer than {lowerbound}."
	case "length_within_range":
		msg = "Must be longer than {start} and shorter than {end}."
	case "less_than":
		msg = "Must be less than {upperbound}."
	case "greater_than":
		msg = "Must be greater than {lowerbound}."
	case "within_range":
		msg = "Must be greater than {start} and shorter than {end}."
	case "items_equal", "attributes_equal":
		msg = "{a} and {b} must be equal."
	case "email":
		msg = "Must be a valid e-mail address."
	case "is_url":
		msg = "Must be a URL."
	case "unknown_key":
		msg = "Unknown field: {key}."
	default:
		return code
	}
	return Substitute(msg, data)
}

var currentTranslator Translator = dictTranslator{}

// SetTranslator replaces the Translator implementation; nil restores the
// built-in dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
// Passing nil data returns the template with its placeholders intact.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }

// Substitute replaces {key} occurrences in msg with the matching values.
// Unknown placeholders are left alone.
func Substitute(msg string, data map[string]string) string {
	if len(data) == 0 {
		return msg
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}
