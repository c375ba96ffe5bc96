package models

import "go.mongodb.org/mongo-driver/v2/bson"

// FullName is the embedded name sub-document of a User.
type FullName struct {
	FirstName string `json:"firstName" bson:"firstName" validate:"required,max=20"`
	LastName  string `json:"lastName" bson:"lastName" validate:"required,max=20"`
}

// Address is the embedded address sub-document of a User.
type Address struct {
	Street  string `json:"street" bson:"street" validate:"required"`
	City    string `json:"city" bson:"city" validate:"required"`
	Country string `json:"country" bson:"country" validate:"required"`
}

// Order is an order line-item embedded in a User document. Orders have no
// identity of their own and are only reachable through their parent User.
type Order struct {
	ProductName string  `json:"productName" bson:"productName"`
	Price       float64 `json:"price" bson:"price"`
	Quantity    int     `json:"quantity" bson:"quantity"`
}

// User is the persisted user document. UserID is the caller-supplied key the
// API addresses users by; the Mongo _id stays internal and never leaves the
// service.
type User struct {
	ID       bson.ObjectID `json:"-" bson:"_id,omitempty"`
	UserID   int           `json:"userId" bson:"userId"`
	Username string        `json:"username" bson:"username"`
	Password string        `json:"-" bson:"password"` // never serialized
	FullName FullName      `json:"fullName" bson:"fullName"`
	Age      int           `json:"age" bson:"age"`
	Email    string        `json:"email" bson:"email"`
	IsActive bool          `json:"isActive" bson:"isActive"`
	Hobbies  []string      `json:"hobbies" bson:"hobbies"`
	Address  Address       `json:"address" bson:"address"`
	Orders   []Order       `json:"orders" bson:"orders"`
}

// UserView is the single-user read projection: the full document minus
// password, orders and the internal id.
type UserView struct {
	UserID   int      `json:"userId" bson:"userId"`
	Username string   `json:"username" bson:"username"`
	FullName FullName `json:"fullName" bson:"fullName"`
	Age      int      `json:"age" bson:"age"`
	Email    string   `json:"email" bson:"email"`
	IsActive bool     `json:"isActive" bson:"isActive"`
	Hobbies  []string `json:"hobbies" bson:"hobbies"`
	Address  Address  `json:"address" bson:"address"`
}

// CreatedUserView is the create response projection: the stored document
// minus password and the internal id, orders included.
type CreatedUserView struct {
	UserView
	Orders []Order `json:"orders"`
}

// UserSummary is the list projection: username, fullName, age, email and
// address only.
type UserSummary struct {
	Username string   `json:"username" bson:"username"`
	FullName FullName `json:"fullName" bson:"fullName"`
	Age      int      `json:"age" bson:"age"`
	Email    string   `json:"email" bson:"email"`
	Address  Address  `json:"address" bson:"address"`
}

// View returns the password/id-stripped projection of a User.
func (u *User) View() *UserView {
	hobbies := u.Hobbies
	if hobbies == nil {
		hobbies = []string{}
	}
	return &UserView{
		UserID:   u.UserID,
		Username: u.Username,
		FullName: u.FullName,
		Age:      u.Age,
		Email:    u.Email,
		IsActive: u.IsActive,
		Hobbies:  hobbies,
		Address:  u.Address,
	}
}

// CreatedView returns the create response projection of a User.
func (u *User) CreatedView() *CreatedUserView {
	orders := u.Orders
	if orders == nil {
		orders = []Order{}
	}
	return &CreatedUserView{
		UserView: *u.View(),
		Orders:   orders,
	}
}

// Summary returns the list projection of a User.
func (u *User) Summary() UserSummary {
	return UserSummary{
		Username: u.Username,
		FullName: u.FullName,
		Age:      u.Age,
		Email:    u.Email,
		Address:  u.Address,
	}
}
