package emuerr_test

import (
	"fmt"
	"testing"

	"github.com/silicontrace/multicore/emuerr"
	"github.com/silicontrace/multicore/test"
)

func TestDuplicateErrors(t *testing.T) {
	const tmpl = "test error: %s"

	e := emuerr.Errorf(tmpl, "foo")
	test.Equate(t, e.Error(), "test error: foo")

	f := emuerr.Errorf(tmpl, e)
	test.Equate(t, f.Error(), "test error: foo")
}

func TestIs(t *testing.T) {
	const tmplA = "test error A: %s"
	const tmplB = "test error B: %s"

	e := emuerr.Errorf(tmplA, "foo")
	test.ExpectSuccess(t, emuerr.Is(e, tmplA))
	test.ExpectFailure(t, emuerr.Has(e, tmplB))

	f := emuerr.Errorf(tmplB, e)
	test.ExpectFailure(t, emuerr.Is(f, tmplA))
	test.ExpectSuccess(t, emuerr.Is(f, tmplB))
	test.ExpectSuccess(t, emuerr.Has(f, tmplA))
	test.ExpectSuccess(t, emuerr.Has(f, tmplB))

	test.ExpectSuccess(t, emuerr.IsAny(e))
	test.ExpectSuccess(t, emuerr.IsAny(f))
}

func TestPlainErrors(t *testing.T) {
	e := fmt.Errorf("plain test error")
	test.ExpectFailure(t, emuerr.IsAny(e))
	test.ExpectFailure(t, emuerr.Has(e, emuerr.CartridgeFormat))
}

func TestLoadTimeCategories(t *testing.T) {
	e := emuerr.Errorf(emuerr.UnsupportedMapper, 255)
	test.Equate(t, e.Error(), "unsupported mapper: 255")
	test.ExpectSuccess(t, emuerr.Is(e, emuerr.UnsupportedMapper))
}
