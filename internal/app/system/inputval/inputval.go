// Package inputval validates user-supplied fields.
//
// Struct validation is driven by `validate` tags with a `label` tag naming
// the field in messages:
//
//	Name string `validate:"required,max=80" label:"Name"`
//
// Supported rules: required, max=N (runes), email, httpurl, objectid,
// category.
package inputval

import (
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/adarshgram/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsValidEmail reports whether s is a bare addr-spec (no display name).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\r\n<>") {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if !validDotAtom(local) || !validDotAtom(domain) {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Name == "" && addr.Address == s
}

func validDotAtom(s string) bool {
	return s != "" &&
		!strings.HasPrefix(s, ".") &&
		!strings.HasSuffix(s, ".") &&
		!strings.Contains(s, "..")
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidObjectID reports whether s is a 24-character hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// IsValidCategory reports whether s names an issue category.
func IsValidCategory(s string) bool {
	return models.IsValidCategory(strings.ToLower(strings.TrimSpace(s)))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Struct validation                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// Result collects every failed rule in field order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the string fields of struct v against their tags. Only the
// first failing rule of each field is reported.
func Validate(v any) *Result {
	res := &Result{}
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return res
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("validate")
		if tag == "" || f.Type.Kind() != reflect.String {
			continue
		}
		label := f.Tag.Get("label")
		if label == "" {
			label = f.Name
		}
		val := strings.TrimSpace(rv.Field(i).String())
		if fe, ok := checkField(f.Name, label, val, strings.Split(tag, ",")); !ok {
			res.Errors = append(res.Errors, fe)
		}
	}
	return res
}

func checkField(field, label, val string, rules []string) (FieldError, bool) {
	for _, rule := range rules {
		name, arg, _ := strings.Cut(strings.TrimSpace(rule), "=")
		fail := func(msg string) (FieldError, bool) {
			return FieldError{Field: field, Rule: name, Message: msg}, false
		}
		switch name {
		case "required":
			if val == "" {
				return fail(label + " is required.")
			}
		case "max":
			n, err := strconv.Atoi(arg)
			if err == nil && utf8.RuneCountInString(val) > n {
				return fail(fmt.Sprintf("%s must be at most %d characters.", label, n))
			}
		case "email":
			if val != "" && !IsValidEmail(val) {
				return fail("A valid email address is required.")
			}
		case "httpurl":
			if val != "" && !IsValidHTTPURL(val) {
				return fail(label + " must be an http or https URL.")
			}
		case "objectid":
			if val != "" && !IsValidObjectID(val) {
				return fail(label + " is not a valid id.")
			}
		case "category":
			if val != "" && !IsValidCategory(val) {
				return fail(fmt.Sprintf("%s must be one of %s.", label, strings.Join(models.Categories, ", ")))
			}
		}
	}
	return FieldError{}, true
}
