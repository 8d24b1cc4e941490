package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/raisama21/ims/internal/events"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/internal/testutil"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	passwordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type fixture struct {
	ctx        context.Context
	db         *gorm.DB
	events     *events.Recorder
	auth       *AuthStore
	categories *CategoryStore
	products   *ProductStore
	customers  *CustomerStore
	users      *UserStore
	orders     *OrderStore
	tracking   *TrackingStore
	reports    *ReportStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	rec := &events.Recorder{}
	return &fixture{
		ctx:        context.Background(),
		db:         db,
		events:     rec,
		auth:       NewAuthStore(db),
		categories: NewCategoryStore(db),
		products:   NewProductStore(db),
		customers:  NewCustomerStore(db),
		users:      NewUserStore(db),
		orders:     NewOrderStore(db, rec),
		tracking:   NewTrackingStore(db, rec),
		reports:    NewReportStore(db),
	}
}

// tenant signs up a business and returns its group id and admin
func (f *fixture) tenant(t *testing.T, business string) (uuid.UUID, *model.User) {
	t.Helper()
	group, admin, err := f.auth.Signup(f.ctx, SignupInput{
		BusinessName: business,
		FirstName:    "alice",
		LastName:     "owner",
		Email:        "admin@" + business + ".test",
		Password:     "correct-horse",
	})
	if err != nil {
		t.Fatalf("Signup(%s) error = %v", business, err)
	}
	return group.ID, admin
}

// catalog seeds a category with a widget at 10 and a gadget at 5
func (f *fixture) catalog(t *testing.T, groupID uuid.UUID) {
	t.Helper()
	if _, err := f.categories.Create(f.ctx, groupID, CategoryInput{Name: "hardware"}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	f.product(t, groupID, "widget", "10", "6")
	f.product(t, groupID, "gadget", "5", "2")
}

func (f *fixture) product(t *testing.T, groupID uuid.UUID, name, selling, purchase string) *model.Product {
	t.Helper()
	p, err := f.products.Create(f.ctx, groupID, ProductInput{
		Name:          name,
		Description:   "a " + name,
		Category:      "hardware",
		Status:        model.ProductInStock,
		Stock:         100,
		PurchasePrice: decimal.RequireFromString(purchase),
		SellingPrice:  decimal.RequireFromString(selling),
	})
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return p
}

func customerInput(email string) CustomerInput {
	return CustomerInput{
		FirstName:   "carol",
		LastName:    "buyer",
		Email:       email,
		PhoneNumber: "9800000000",
		Address: AddressInput{
			StreetAddress: "1 main street",
			City:          "pokhara",
			Province:      "gandaki",
			PostalCode:    "33700",
		},
	}
}

func (f *fixture) customer(t *testing.T, groupID uuid.UUID, email string) *model.Customer {
	t.Helper()
	c, err := f.customers.Create(f.ctx, groupID, customerInput(email))
	if err != nil {
		t.Fatalf("create customer %s: %v", email, err)
	}
	return c
}

// widgetOrder is the reference order: widget x2 @ 10, gadget x1 @ 5,
// delivery 5, total 30.
func widgetOrder(customerID uuid.UUID) OrderInput {
	return OrderInput{
		CustomerID: customerID,
		Items: []OrderItemInput{
			{Product: "widget", Quantity: 2},
			{Product: "gadget", Quantity: 1},
		},
		SubTotal:       decimal.NewFromInt(25),
		DeliveryCharge: decimal.NewFromInt(5),
		Total:          decimal.NewFromInt(30),
	}
}

func (f *fixture) order(t *testing.T, groupID, customerID uuid.UUID) *model.Order {
	t.Helper()
	o, err := f.orders.Create(f.ctx, groupID, widgetOrder(customerID))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func assertConflict(t *testing.T, err error, field string) {
	t.Helper()
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want *ConflictError", err)
	}
	if conflict.Field != field {
		t.Fatalf("conflict field = %q, want %q", conflict.Field, field)
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("errors.Is(%v, ErrConflict) = false", err)
	}
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Fatalf("validation fields = %v, want %q", verr.Fields, field)
	}
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

var errWriteFailed = errors.New("write failed")

// failInserts makes every insert into table fail with errWriteFailed
func (f *fixture) failInserts(t *testing.T, table string) {
	t.Helper()
	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_"+table, func(db *gorm.DB) {
		if db.Statement.Table == table {
			db.AddError(errWriteFailed)
		}
	})
	if err != nil {
		t.Fatalf("register failing callback: %v", err)
	}
}
