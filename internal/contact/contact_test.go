package contact

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FReptar0/EvoSystems/internal/i18n"
)

func translations(t *testing.T, l i18n.Locale) *i18n.Translations {
	t.Helper()
	c, err := i18n.LoadCatalog()
	require.NoError(t, err)
	return c.For(l)
}

func validForm() Form {
	return Form{
		Name:    " Ana López ",
		Email:   "ana@example.com",
		Company: "Acme",
		Phone:   "55 1234 5678",
		Service: "Sistemas ERP",
		Message: "Necesitamos migrar nuestro inventario.",
	}
}

func TestValidate_OK(t *testing.T) {
	f := validForm()
	require.NoError(t, f.Validate())
	assert.Equal(t, "Ana López", f.Name)
}

func TestValidate_Errors(t *testing.T) {
	f := Form{Email: "not-an-email", Phone: "123"}
	err := f.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidForm))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]string{}
	for _, fe := range verr.Fields {
		fields[fe.Field] = fe.Rule
	}
	assert.Equal(t, "required", fields["name"])
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "mxphone", fields["phone"])
	assert.Equal(t, "required", fields["message"])
	assert.Contains(t, err.Error(), "invalid contact form")
}

func TestValidMexicanPhone(t *testing.T) {
	assert.True(t, ValidMexicanPhone("5512345678"))
	assert.True(t, ValidMexicanPhone("(55) 1234-5678"))
	assert.True(t, ValidMexicanPhone("+52 55 1234 5678"))
	assert.False(t, ValidMexicanPhone("+1 555 123 4567 8"))
	assert.False(t, ValidMexicanPhone("12345"))
}

func TestFormatMexicanPhone(t *testing.T) {
	assert.Equal(t, "(55) 1234-5678", FormatMexicanPhone("5512345678"))
	assert.Equal(t, "+52 55 1234-5678", FormatMexicanPhone("525512345678"))
	assert.Equal(t, "12345", FormatMexicanPhone("12345"))
}

func TestWhatsAppURL(t *testing.T) {
	got := WhatsAppURL("55 0000 0000", "Quiero una cotización", i18n.Spanish, 9)
	require.True(t, strings.HasPrefix(got, "https://wa.me/525500000000?text="))

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "Buenos días! Quiero una cotización", u.Query().Get("text"))
	assert.NotContains(t, got, "+")

	en := WhatsAppURL("525500000000", "Hi", i18n.English, 20)
	assert.Contains(t, en, "wa.me/525500000000?")
	assert.Contains(t, en, "Good%20evening")
}

func TestMessage(t *testing.T) {
	f := validForm()
	require.NoError(t, f.Validate())

	es := Message(f, translations(t, i18n.Spanish))
	assert.Equal(t, "Me interesa el servicio de Sistemas ERP. Mi nombre es Ana López y represento a la empresa Acme. Necesitamos migrar nuestro inventario.", es)

	f.Company = ""
	f.Service = ""
	en := Message(f, translations(t, i18n.English))
	assert.Equal(t, "I'm interested in the service. My name is Ana López. Necesitamos migrar nuestro inventario.", en)
}

func TestMailtoURL(t *testing.T) {
	f := validForm()
	require.NoError(t, f.Validate())

	got := MailtoURL("info@evosystems.dev", f, translations(t, i18n.Spanish))
	require.True(t, strings.HasPrefix(got, "mailto:info@evosystems.dev?"))

	q, err := url.ParseQuery(strings.TrimPrefix(got, "mailto:info@evosystems.dev?"))
	require.NoError(t, err)
	assert.Contains(t, q.Get("subject"), "Sistemas ERP")
	assert.Contains(t, q.Get("body"), "(55) 1234-5678")
	assert.Contains(t, q.Get("body"), "Necesitamos migrar nuestro inventario.")
}

func TestBuildLinks(t *testing.T) {
	f := validForm()
	require.NoError(t, f.Validate())

	links := BuildLinks(f, "525500000000", "info@evosystems.dev", translations(t, i18n.Spanish), i18n.Spanish, 15)
	assert.Contains(t, links.WhatsApp, "Buenas%20tardes")
	assert.True(t, strings.HasPrefix(links.Mailto, "mailto:"))
}
