// Package contact validates the quote request form and turns it into
// WhatsApp and e-mail links for the sales team.
package contact

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/FReptar0/EvoSystems/internal/i18n"
)

// ErrInvalidForm wraps every form validation failure.
var ErrInvalidForm = errors.New("invalid contact form")

const countryCode = "52"

// Form is a quote request. Channel picks the link a plain HTML form
// submission is redirected to.
type Form struct {
	Name    string `json:"name" form:"name" validate:"required,max=100"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Company string `json:"company" form:"company" validate:"max=100"`
	Phone   string `json:"phone" form:"phone" validate:"omitempty,mxphone"`
	Service string `json:"service" form:"service" validate:"max=80"`
	Message string `json:"message" form:"message" validate:"required,max=2000"`
	Locale  string `json:"locale" form:"locale"`
	Channel string `json:"channel" form:"channel" validate:"omitempty,oneof=whatsapp email"`
}

// FieldError names one invalid field and the rule it broke.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists the invalid fields of a Form.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " (" + f.Rule + ")"
	}
	return fmt.Sprintf("%s: %s", ErrInvalidForm, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidForm }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return jsonName(f.Tag.Get("json"))
	})
	_ = v.RegisterValidation("mxphone", func(fl validator.FieldLevel) bool {
		return ValidMexicanPhone(fl.Field().String())
	})
	return v
}

func jsonName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// Validate trims the form and checks it. The returned error is a
// *ValidationError that matches ErrInvalidForm.
func (f *Form) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Company = strings.TrimSpace(f.Company)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Service = strings.TrimSpace(f.Service)
	f.Message = strings.TrimSpace(f.Message)

	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escape percent-encodes s with %20 for spaces; chat and mail clients do
// not all read + as a space.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ValidMexicanPhone accepts 10-digit national numbers and 12-digit numbers
// carrying the 52 country code. Punctuation is ignored.
func ValidMexicanPhone(phone string) bool {
	d := digits(phone)
	return len(d) == 10 || (len(d) == 12 && strings.HasPrefix(d, countryCode))
}

// FormatMexicanPhone renders "(55) 1234-5678" for national numbers and
// "+52 55 1234-5678" for international ones. Anything else is returned
// unchanged.
func FormatMexicanPhone(phone string) string {
	d := digits(phone)
	switch {
	case len(d) == 10:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:6], d[6:])
	case len(d) == 12 && strings.HasPrefix(d, countryCode):
		n := d[4:]
		return fmt.Sprintf("+52 %s %s-%s", d[2:4], n[:4], n[4:])
	}
	return phone
}

// WhatsAppURL builds a wa.me deep link that opens a chat with phone and a
// greeting for hour prepended to message.
func WhatsAppURL(phone, message string, l i18n.Locale, hour int) string {
	d := digits(phone)
	if !strings.HasPrefix(d, countryCode) {
		d = countryCode + d
	}
	text := i18n.Greeting(hour, l) + "! " + message
	return "https://wa.me/" + d + "?text=" + escape(text)
}

// Message composes the chat text for a submitted form from the locale's
// phrases: the service of interest, the sender's name and company.
func Message(f Form, t *i18n.Translations) string {
	var b strings.Builder
	b.WriteString(t.Contact.Intro)
	if f.Service != "" {
		b.WriteString(" " + f.Service)
	}
	b.WriteString(".")
	if f.Name != "" {
		b.WriteString(" " + t.Contact.NamePart + " " + f.Name)
		if f.Company != "" {
			b.WriteString(" " + t.Contact.CompanyPart + " " + f.Company)
		}
		b.WriteString(".")
	}
	if f.Message != "" {
		b.WriteString(" " + f.Message)
	}
	return b.String()
}

// MailtoURL builds a mailto link carrying the form as subject and body.
func MailtoURL(to string, f Form, t *i18n.Translations) string {
	service := f.Service
	if service == "" {
		service = t.Contact.Service
	}
	lines := []string{
		t.Contact.Name + ": " + f.Name,
		t.Contact.Email + ": " + f.Email,
		t.Contact.Company + ": " + f.Company,
		t.Contact.Phone + ": " + FormatMexicanPhone(f.Phone),
		t.Contact.Service + ": " + f.Service,
		"",
		f.Message,
	}
	q := url.Values{}
	q.Set("subject", t.Contact.Title+" - "+service)
	q.Set("body", strings.Join(lines, "\n"))
	return "mailto:" + to + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}

// Links are the two ways a form reaches the sales team.
type Links struct {
	WhatsApp string `json:"whatsapp"`
	Mailto   string `json:"mailto"`
}

// BuildLinks returns both links for a validated form.
func BuildLinks(f Form, whatsappPhone, email string, t *i18n.Translations, l i18n.Locale, hour int) Links {
	return Links{
		WhatsApp: WhatsAppURL(whatsappPhone, Message(f, t), l, hour),
		Mailto:   MailtoURL(email, f, t),
	}
}
