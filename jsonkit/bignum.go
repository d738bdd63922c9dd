package jsonkit

import (
	"reflect"

	"github.com/cockroachdb/apd/v3"

	"github.com/jsonkit/jsonkit/jsontoken"
)

// BigDecimalFactory wires github.com/cockroachdb/apd/v3's arbitrary
// precision decimal into the registry as the adapter for *apd.Decimal,
// the capability spec.md §6 calls out as an explicit opt-in beyond the
// default int64/float64 numeric forms.
func BigDecimalFactory() Factory {
	decimalPtrType := reflect.TypeOf((*apd.Decimal)(nil))
	return func(t reflect.Type, quals []Qualifier, reg *Registry) (Adapter, bool) {
		if t != decimalPtrType {
			return nil, false
		}
		return bigDecimalAdapter{}, true
	}
}

type bigDecimalAdapter struct{}

func (bigDecimalAdapter) FromJSON(r jsontoken.Reader) (any, error) {
	return r.ReadBigDecimal()
}

func (bigDecimalAdapter) ToJSON(w jsontoken.Writer, v any) error {
	d, ok := v.(*apd.Decimal)
	if !ok || d == nil {
		return w.WriteNull()
	}
	return w.WriteBigDecimal(d)
}
