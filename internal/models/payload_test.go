package models

import (
	"bytes"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPayloadFromFields_KeepsOrder(t *testing.T) {
	p := PayloadFromFields([]Field{
		{Name: "email", Value: "ana@example.com"},
		{Name: "newsletter", Value: "on"},
		{Name: "reason", Value: "demasiados correos"},
	})

	require.Equal(t, 3, p.Len())
	if diff := cmp.Diff([]string{"email", "newsletter", "reason"}, p.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestPayloadFromFields_LastValueWins(t *testing.T) {
	p := PayloadFromFields([]Field{
		{Name: "topic", Value: "a"},
		{Name: "email", Value: "ana@example.com"},
		{Name: "topic", Value: "b"},
	})

	want := []Field{
		{Name: "topic", Value: "b"},
		{Name: "email", Value: "ana@example.com"},
	}
	if diff := cmp.Diff(want, p.Fields()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestPayload_Empty(t *testing.T) {
	p := PayloadFromFields(nil)

	require.Equal(t, 0, p.Len())
	require.Empty(t, p.Fields())
	require.Empty(t, p.Values())
	_, ok := p.Get("email")
	require.False(t, ok)
}

func TestPayload_KeysIsACopy(t *testing.T) {
	p := NewPayload()
	p.Set("email", "x@example.com")

	keys := p.Keys()
	keys[0] = "changed"

	require.Equal(t, []string{"email"}, p.Keys())
}

func TestPayload_Values(t *testing.T) {
	p := NewPayload()
	p.Set("email", "ana@example.com")
	p.Set("reason", "")

	want := url.Values{"email": {"ana@example.com"}, "reason": {""}}
	if diff := cmp.Diff(want, p.Values()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "email=ana%40example.com&reason=", p.Values().Encode())
}

func TestPayload_LogValue(t *testing.T) {
	p := NewPayload()
	p.Set("email", "ana@example.com")
	p.Set("newsletter", "on")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("form submitted", "payload", p)

	out := buf.String()
	require.Contains(t, out, "payload.email=ana@example.com")
	require.Contains(t, out, "payload.newsletter=on")
	require.Less(t, strings.Index(out, "payload.email"), strings.Index(out, "payload.newsletter"))
}

func TestFormState_String(t *testing.T) {
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "submitting", Submitting.String())
	require.Equal(t, "unknown", FormState(7).String())
}

func TestIconKey_AssetPath(t *testing.T) {
	require.Equal(t, "./assets/success.gif", IconSuccess.AssetPath())
	require.Equal(t, "./assets/error.gif", IconError.AssetPath())
	require.Equal(t, IconSuccess, SuccessMessage.Icon)
	require.Equal(t, IconError, ErrorMessage.Icon)
}
