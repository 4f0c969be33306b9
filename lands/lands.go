// Package lands binds the ledger to whatever ownership/banking object the
// host's Lands integration exposes at runtime. There is no compile-time
// contract: the adapter probes method sets by name and shape, caches the
// resolved binding per concrete type, and degrades to "not available"
// instead of ever panicking outward.
package lands

import (
	"reflect"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var findLandNames = []string{"GetLand", "GetLandById", "GetLandByID", "FindLandById", "FindLandByID", "GetLandByULID", "Land"}
var readBankNames = []string{"Bank", "GetBank", "Balance", "GetBalance", "BankBalance", "GetBankBalance", "Money", "GetMoney"}
var writeBankNames = []string{"SetBankBalance", "SetBalance", "SetBank", "SetBankAmount", "UpdateBalance"}
var ownerNames = []string{"LandOf", "GetLandOf", "OwnedLand", "GetOwnedLand", "LandOfPlayer"}
var idGetterNames = []string{"Ulid", "GetUlid", "ULID", "Id", "GetId", "ID", "GetID", "LandId"}

type bankBinding struct {
	Read  string // resolved method name, empty until a read succeeds
	Write string
}

type Adapter struct {
	Logger *log.Entry
	API    interface{}

	BindingsMutex sync.Mutex
	Bindings      map[reflect.Type]*bankBinding
}

func New(api interface{}) *Adapter {
	return &Adapter{
		Logger:   log.WithField("module", "lands"),
		API:      api,
		Bindings: make(map[reflect.Type]*bankBinding),
	}
}

func (adapter *Adapter) Available() bool {
	return adapter != nil && adapter.API != nil
}

// call invokes a reflected method, swallowing any panic the foreign code
// raises. Returns the first result, or an invalid Value on failure.
func call(method reflect.Value, args ...reflect.Value) (result reflect.Value) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = reflect.Value{}
		}
	}()

	out := method.Call(args)
	if len(out) == 0 {
		return reflect.Value{}
	}

	return out[0]
}

func takesOneString(method reflect.Value) bool {
	t := method.Type()

	return t.NumIn() == 1 && t.In(0).Kind() == reflect.String && t.NumOut() >= 1
}

// FindLand locates the external land object for an account id, trying the
// known accessor names first and then anything land-shaped.
func (adapter *Adapter) FindLand(accountID string) interface{} {
	if !adapter.Available() {
		return nil
	}

	api := reflect.ValueOf(adapter.API)
	arg := reflect.ValueOf(accountID)

	for _, name := range findLandNames {
		method := api.MethodByName(name)
		if !method.IsValid() || !takesOneString(method) {
			continue
		}

		result := call(method, arg)
		if result.IsValid() && !resultIsNil(result) {
			return result.Interface()
		}
	}

	// Last resort: any single-string-arg method whose name mentions a land.
	apiType := api.Type()
	for i := 0; i < apiType.NumMethod(); i++ {
		name := apiType.Method(i).Name
		if !strings.Contains(strings.ToLower(name), "land") {
			continue
		}

		method := api.Method(i)
		if !takesOneString(method) {
			continue
		}

		result := call(method, arg)
		if result.IsValid() && !resultIsNil(result) {
			return result.Interface()
		}
	}

	return nil
}

func resultIsNil(value reflect.Value) bool {
	switch value.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return value.IsNil()
	}

	return false
}

func (adapter *Adapter) binding(t reflect.Type) *bankBinding {
	adapter.BindingsMutex.Lock()
	defer adapter.BindingsMutex.Unlock()

	b, found := adapter.Bindings[t]
	if !found {
		b = &bankBinding{}
		adapter.Bindings[t] = b
	}

	return b
}

// ReadBank pulls a balance-like value out of a land object.
func (adapter *Adapter) ReadBank(land interface{}) (decimal.Decimal, bool) {
	if land == nil {
		return decimal.Zero, false
	}

	value := reflect.ValueOf(land)
	b := adapter.binding(value.Type())

	if b.Read != "" {
		if amount, ok := adapter.readVia(value, b.Read); ok {
			return amount, true
		}
	}

	for _, name := range readBankNames {
		if amount, ok := adapter.readVia(value, name); ok {
			b.Read = name
			return amount, true
		}
	}

	// Fallback: any zero-arg method that sounds like a balance.
	t := value.Type()
	for i := 0; i < t.NumMethod(); i++ {
		name := t.Method(i).Name
		lower := strings.ToLower(name)
		if !strings.Contains(lower, "bank") && !strings.Contains(lower, "balance") && !strings.Contains(lower, "money") {
			continue
		}

		if amount, ok := adapter.readVia(value, name); ok {
			b.Read = name
			return amount, true
		}
	}

	return decimal.Zero, false
}

func (adapter *Adapter) readVia(land reflect.Value, name string) (decimal.Decimal, bool) {
	method := land.MethodByName(name)
	if !method.IsValid() || method.Type().NumIn() != 0 || method.Type().NumOut() < 1 {
		return decimal.Zero, false
	}

	result := call(method)
	if !result.IsValid() {
		return decimal.Zero, false
	}

	return toDecimal(result)
}

func toDecimal(value reflect.Value) (decimal.Decimal, bool) {
	if value.Kind() == reflect.Interface || value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return decimal.Zero, false
		}

		value = value.Elem()
	}

	if value.Type() == reflect.TypeOf(decimal.Decimal{}) {
		return value.Interface().(decimal.Decimal), true
	}

	switch value.Kind() {
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(value.Float()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(value.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromInt(int64(value.Uint())), true
	case reflect.String:
		parsed, err := decimal.NewFromString(value.String())
		if err != nil {
			return decimal.Zero, false
		}

		return parsed, true
	}

	if stringer, ok := value.Interface().(interface{ String() string }); ok {
		parsed, err := decimal.NewFromString(stringer.String())
		if err == nil {
			return parsed, true
		}
	}

	return decimal.Zero, false
}

// WriteBank pushes a balance into a land object, matching the setter's
// parameter type.
func (adapter *Adapter) WriteBank(land interface{}, amount decimal.Decimal) bool {
	if land == nil {
		return false
	}

	value := reflect.ValueOf(land)
	b := adapter.binding(value.Type())

	if b.Write != "" {
		if adapter.writeVia(value, b.Write, amount) {
			return true
		}
	}

	for _, name := range writeBankNames {
		if adapter.writeVia(value, name, amount) {
			b.Write = name
			return true
		}
	}

	t := value.Type()
	for i := 0; i < t.NumMethod(); i++ {
		name := t.Method(i).Name
		lower := strings.ToLower(name)
		if !strings.Contains(lower, "bank") && !strings.Contains(lower, "balance") && !strings.Contains(lower, "deposit") {
			continue
		}

		if adapter.writeVia(value, name, amount) {
			b.Write = name
			return true
		}
	}

	return false
}

func (adapter *Adapter) writeVia(land reflect.Value, name string, amount decimal.Decimal) bool {
	method := land.MethodByName(name)
	if !method.IsValid() || method.Type().NumIn() != 1 {
		return false
	}

	param := method.Type().In(0)

	var arg reflect.Value
	switch {
	case param == reflect.TypeOf(decimal.Decimal{}):
		arg = reflect.ValueOf(amount)
	case param.Kind() == reflect.Float64 || param.Kind() == reflect.Float32:
		f, _ := amount.Float64()
		arg = reflect.ValueOf(f).Convert(param)
	case param.Kind() >= reflect.Int && param.Kind() <= reflect.Int64:
		arg = reflect.ValueOf(amount.IntPart()).Convert(param)
	case param.Kind() == reflect.String:
		arg = reflect.ValueOf(amount.String())
	default:
		return false
	}

	defer func() { recover() }()
	method.Call([]reflect.Value{arg})

	return true
}

// ResolveOwnedLand maps a user id to the account id of the land they own.
// Returns "" and false when ownership cannot be resolved.
func (adapter *Adapter) ResolveOwnedLand(userID string) (string, bool) {
	if !adapter.Available() {
		return "", false
	}

	api := reflect.ValueOf(adapter.API)
	arg := reflect.ValueOf(userID)

	for _, name := range ownerNames {
		method := api.MethodByName(name)
		if !method.IsValid() || !takesOneString(method) {
			continue
		}

		result := call(method, arg)
		if !result.IsValid() || resultIsNil(result) {
			continue
		}

		if id, ok := landID(result); ok {
			return id, true
		}
	}

	return "", false
}

func landID(value reflect.Value) (string, bool) {
	if value.Kind() == reflect.Interface {
		if value.IsNil() {
			return "", false
		}

		value = value.Elem()
	}

	if value.Kind() == reflect.String {
		if value.String() == "" {
			return "", false
		}

		return value.String(), true
	}

	for _, name := range idGetterNames {
		method := value.MethodByName(name)
		if !method.IsValid() || method.Type().NumIn() != 0 || method.Type().NumOut() < 1 {
			continue
		}

		result := call(method)
		if !result.IsValid() {
			continue
		}

		if result.Kind() == reflect.String && result.String() != "" {
			return result.String(), true
		}

		if stringer, ok := result.Interface().(interface{ String() string }); ok {
			if id := stringer.String(); id != "" {
				return id, true
			}
		}
	}

	return "", false
}
