package session_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thomasrohde/glitter/internal/testutil"
	"github.com/thomasrohde/glitter/pkg/natives"
	"github.com/thomasrohde/glitter/pkg/session"
	"github.com/thomasrohde/glitter/pkg/value"
)

func TestFixtures(t *testing.T) {
	fixtures, err := testutil.LoadFixtures("testdata")
	require.NoError(t, err)
	require.NotEmpty(t, fixtures)

	for _, f := range fixtures {
		f := f
		t.Run(f.Name, func(t *testing.T) {
			var out bytes.Buffer
			sess := session.New(strings.NewReader(""), &out)
			err := sess.Run(f.Source, f.Name+".glitter")
			require.NoError(t, err)
			require.Equal(t, f.Expected, out.String())
		})
	}
}

// TestErrorIsolation verifies spec.md §8 property 8: a runtime error in one
// Run call does not corrupt globals visible to a subsequent Run call.
func TestErrorIsolation(t *testing.T) {
	var out bytes.Buffer
	sess := session.New(strings.NewReader(""), &out)

	require.NoError(t, sess.Run(`var a = 5; print a;`, "first"))
	require.Equal(t, "5\n", out.String())

	out.Reset()
	err := sess.Run(`print "x" + 1;`, "second")
	require.Error(t, err)

	out.Reset()
	require.NoError(t, sess.Run(`print a;`, "third"))
	require.Equal(t, "5\n", out.String())
}

func TestClockNative(t *testing.T) {
	var out bytes.Buffer
	sess := session.New(strings.NewReader(""), &out)
	require.NoError(t, sess.Run(`print clock() >= 0;`, "clock"))
	require.Equal(t, "true\n", out.String())
}

func TestWithNativeRegistryWiresOptionalNatives(t *testing.T) {
	var out bytes.Buffer
	registry := natives.NewRegistry()
	natives.RegisterOptional(registry, strings.NewReader("from stdin\n"))

	sess := session.New(strings.NewReader(""), &out, session.WithNativeRegistry(registry))
	require.NoError(t, sess.Run(`print read();`, "optional"))
	require.Equal(t, "from stdin\n", out.String())
}

func TestRegisterNative(t *testing.T) {
	var out bytes.Buffer
	sess := session.New(strings.NewReader(""), &out)
	sess.RegisterNative("double", 1, func(args []value.Value) (value.Value, error) {
		n := args[0].(value.Number)
		return value.Number{Value: n.Value * 2}, nil
	})
	require.NoError(t, sess.Run(`print double(21);`, "native"))
	require.Equal(t, "42\n", out.String())
}
