package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/assay/pkg/env"
)

func TestString(t *testing.T) {
	t.Setenv("ASSAY_TEST_STRING", "value")

	s := "default"
	env.String(&s, "ASSAY_TEST_UNSET")
	assert.Equal(t, "default", s)

	env.String(&s, "")
	assert.Equal(t, "default", s)

	env.String(&s, "ASSAY_TEST_STRING")
	assert.Equal(t, "value", s)
}

func TestNumbers(t *testing.T) {
	t.Setenv("ASSAY_TEST_INT", "42")
	t.Setenv("ASSAY_TEST_BAD", "forty")
	t.Setenv("ASSAY_TEST_FLOAT", "0.25")

	n := 1
	env.Int(&n, "ASSAY_TEST_BAD")
	assert.Equal(t, 1, n)
	env.Int(&n, "ASSAY_TEST_INT")
	assert.Equal(t, 42, n)

	var n64 int64
	env.Int64(&n64, "ASSAY_TEST_INT")
	assert.Equal(t, int64(42), n64)

	f := 1.0
	env.Float(&f, "ASSAY_TEST_FLOAT")
	assert.Equal(t, 0.25, f)
}

func TestBool(t *testing.T) {
	t.Setenv("ASSAY_TEST_BOOL", "true")

	var b bool
	env.Bool(&b, "ASSAY_TEST_BOOL")
	assert.True(t, b)
}

func TestList(t *testing.T) {
	t.Setenv("ASSAY_TEST_LIST", " a, ,b ,c")

	list := []string{"x"}
	env.List(&list, "ASSAY_TEST_LIST")
	assert.Equal(t, []string{"a", "b", "c"}, list)
}
