package model

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"time"
)

// DateLayout is the wire format for promotion dates.
const DateLayout = "2006-01-02"

// PromoType enumerates the kinds of promotion. Unknown is a storage
// default and is never accepted from client input.
type PromoType int

const (
	BuyOneGetOne    PromoType = 0
	PercentDiscount PromoType = 1
	FreeShipping    PromoType = 2
	VIP             PromoType = 3
	Unknown         PromoType = 9
)

var promoTypeNames = map[PromoType]string{
	BuyOneGetOne:    "BUY_ONE_GET_ONE",
	PercentDiscount: "PERCENT_DISCOUNT",
	FreeShipping:    "FREE_SHIPPING",
	VIP:             "VIP",
	Unknown:         "UNKNOWN",
}

// String returns the enum name, or "" for a value outside the enum.
func (t PromoType) String() string { return promoTypeNames[t] }

// ParsePromoType converts a submitted enum name into a PromoType.
// UNKNOWN is not a valid submitted value.
func ParsePromoType(name string) (PromoType, error) {
	for t, n := range promoTypeNames {
		if t != Unknown && n == name {
			return t, nil
		}
	}
	return Unknown, NewValidationError(fmt.Sprintf("invalid promotion type %q", name))
}

// Value stores the enum by name so the column stays readable.
func (t PromoType) Value() (driver.Value, error) {
	name := t.String()
	if name == "" {
		return nil, fmt.Errorf("invalid promotion type %d", int(t))
	}
	return name, nil
}

func (t *PromoType) Scan(src any) error {
	var name string
	switch v := src.(type) {
	case []byte:
		name = string(v)
	case string:
		name = v
	default:
		return fmt.Errorf("cannot scan %T into PromoType", src)
	}
	for typ, n := range promoTypeNames {
		if n == name {
			*t = typ
			return nil
		}
	}
	return fmt.Errorf("unknown promotion type %q", name)
}

// ValidationError reports malformed or missing client input.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError { return &ValidationError{msg: msg} }

func (e *ValidationError) Error() string { return e.msg }

// Promotion represents a time-bounded marketing incentive.
// ID 0 means the record has not been persisted yet.
type Promotion struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;size:63"`
	Type      PromoType `gorm:"column:type;type:varchar(32);not null"`
	Discount  *int      `gorm:"column:discount"`
	Customer  *int      `gorm:"column:customer"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null"`
}

func (Promotion) TableName() string { return "promotions" }

// Canceled reports whether the promotion was terminated early by pulling
// its end date back to the start date.
func (p *Promotion) Canceled() bool { return p.StartDate.Equal(p.EndDate) }

// Deserialize populates the promotion from an untyped key-value payload.
// name, type, start_date and end_date are required; discount and customer
// are optional integers. All failures are ValidationErrors.
func (p *Promotion) Deserialize(data map[string]any) error {
	name, err := requireString(data, "name")
	if err != nil {
		return err
	}
	rawType, err := requireString(data, "type")
	if err != nil {
		return err
	}
	promoType, err := ParsePromoType(rawType)
	if err != nil {
		return err
	}
	discount, err := optionalInt(data, "discount")
	if err != nil {
		return err
	}
	customer, err := optionalInt(data, "customer")
	if err != nil {
		return err
	}
	start, err := requireDate(data, "start_date")
	if err != nil {
		return err
	}
	end, err := requireDate(data, "end_date")
	if err != nil {
		return err
	}

	p.Name = name
	p.Type = promoType
	p.Discount = discount
	p.Customer = customer
	p.StartDate = start
	p.EndDate = end
	return nil
}

// Serialize renders the wire representation of the promotion. A malformed
// entity (zero dates or a type outside the enum) yields an empty map
// instead of an error.
func (p *Promotion) Serialize() map[string]any {
	if p.Type.String() == "" || p.StartDate.IsZero() || p.EndDate.IsZero() {
		return map[string]any{}
	}
	var id any
	if p.ID != 0 {
		id = p.ID
	}
	var discount, customer any
	if p.Discount != nil {
		discount = *p.Discount
	}
	if p.Customer != nil {
		customer = *p.Customer
	}
	return map[string]any{
		"id":         id,
		"name":       p.Name,
		"type":       p.Type.String(),
		"discount":   discount,
		"customer":   customer,
		"start_date": p.StartDate.Format(DateLayout),
		"end_date":   p.EndDate.Format(DateLayout),
	}
}

func requireString(data map[string]any, key string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return "", NewValidationError("missing " + key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", NewValidationError(key + " must be a string")
	}
	return s, nil
}

func requireDate(data map[string]any, key string) (time.Time, error) {
	s, err := requireString(data, key)
	if err != nil {
		return time.Time{}, err
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, NewValidationError(key + " must be a YYYY-MM-DD date")
	}
	return d, nil
}

// optionalInt reads an optional integer field. Decoded JSON numbers arrive
// as float64; numeric strings are accepted as well. Absent and null both
// mean "not set".
func optionalInt(data map[string]any, key string) (*int, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return nil, NewValidationError(key + " must be an integer")
		}
		n := int(v)
		return &n, nil
	case int:
		n := v
		return &n, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, NewValidationError(key + " must be an integer")
		}
		return &n, nil
	default:
		return nil, NewValidationError(key + " must be an integer")
	}
}
