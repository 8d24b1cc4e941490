package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestFieldsOfReportsJSONPaths(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want map[string]string
	}{
		{
			name: "customer with a bad email, phone and missing city",
			in: &CustomerInput{
				FirstName:   "carol",
				LastName:    "jones",
				Email:       "carol-at-example",
				PhoneNumber: "+977 98",
				Address:     AddressInput{StreetAddress: "1 main st", Province: "bagmati", PostalCode: "44600"},
			},
			want: map[string]string{
				"email":        "invalid email",
				"phone_number": "invalid phone number",
				"address.city": "city required",
			},
		},
		{
			name: "order with a nil customer, a negative sub total and a zero quantity",
			in: &OrderInput{
				Items: []OrderItemInput{
					{Product: "widget", Quantity: 2},
					{Product: "gadget", Quantity: 0},
				},
				SubTotal:      decimal.NewFromInt(-1),
				PaymentMethod: "in-person",
			},
			want: map[string]string{
				"customer_id":       "customer id required",
				"sub_total":         "sub total must be at least 0",
				"items[1].quantity": "quantity must be at least 1",
			},
		},
		{
			name: "user with an unknown role and a short name",
			in:   &UserInput{FirstName: "al", LastName: "smith", Email: "al@acme.test", Role: "owner"},
			want: map[string]string{
				"first_name": "first name must be at least 3 characters long",
				"role":       "role must be one of admin, product-manager, sales-person",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fieldsOf(tt.in)
			if len(got) != len(tt.want) {
				t.Errorf("fieldsOf() = %v, want %v", got, tt.want)
			}
			for field, msg := range tt.want {
				if got[field] != msg {
					t.Errorf("fieldsOf()[%q] = %q, want %q", field, got[field], msg)
				}
			}
		})
	}
}

func TestFieldsOfAcceptsValidInput(t *testing.T) {
	inputs := []interface{}{
		&CustomerInput{
			FirstName:   "carol",
			LastName:    "jones",
			Email:       "carol@example.com",
			PhoneNumber: "+9779800000000",
			Address:     AddressInput{StreetAddress: "1 main st", City: "kathmandu", Province: "bagmati", PostalCode: "44600"},
		},
		&OrderInput{
			CustomerID:    uuid.New(),
			Items:         []OrderItemInput{{Product: "widget", Quantity: 1}},
			PaymentMethod: "e-wallet",
		},
		&UserInput{FirstName: "sam", LastName: "seller", Email: "sam@acme.test", Role: "sales-person"},
	}

	for _, in := range inputs {
		if got := fieldsOf(in); len(got) != 0 {
			t.Errorf("fieldsOf(%T) = %v, want no errors", in, got)
		}
	}
}

func TestUserPasswordRequiredOnlyOnCreate(t *testing.T) {
	in := UserInput{FirstName: "sam", LastName: "seller", Email: "sam@acme.test", Role: "sales-person"}

	assertValidation(t, in.validate(true), "password")
	if err := in.validate(false); err != nil {
		t.Errorf("validate(false) error = %v, want nil", err)
	}

	in.Password = "short"
	assertValidation(t, in.validate(false), "password")
}
