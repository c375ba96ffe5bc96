package models

// CreateUserRequest is the payload for creating a user. Numeric and boolean
// fields are pointers so that present-but-zero values (age 0, isActive false)
// survive the required check.
type CreateUserRequest struct {
	UserID   *int           `json:"userId" validate:"required"`
	Username string         `json:"username" validate:"required"`
	Password string         `json:"password" validate:"required"`
	FullName *FullName      `json:"fullName" validate:"required"`
	Age      *int           `json:"age" validate:"required"`
	Email    string         `json:"email" validate:"required,email"`
	IsActive *bool          `json:"isActive" validate:"required"`
	Hobbies  []string       `json:"hobbies" validate:"required"`
	Address  *Address       `json:"address" validate:"required"`
	Orders   []OrderRequest `json:"orders" validate:"omitempty,dive"`
}

// ToUser converts a validated create payload into a persistable User.
// Orders default to an empty sequence when the payload omits them.
func (r *CreateUserRequest) ToUser() *User {
	orders := make([]Order, 0, len(r.Orders))
	for _, o := range r.Orders {
		orders = append(orders, o.ToOrder())
	}
	return &User{
		UserID:   *r.UserID,
		Username: r.Username,
		Password: r.Password,
		FullName: *r.FullName,
		Age:      *r.Age,
		Email:    r.Email,
		IsActive: *r.IsActive,
		Hobbies:  r.Hobbies,
		Address:  *r.Address,
		Orders:   orders,
	}
}

// OrderRequest is the payload for appending an order to a user. Price and
// quantity are pointers for the same present-but-zero reason as above.
type OrderRequest struct {
	ProductName string   `json:"productName" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Quantity    *int     `json:"quantity" validate:"required"`
}

// ToOrder converts a validated order payload into an embeddable Order.
func (r *OrderRequest) ToOrder() Order {
	return Order{
		ProductName: r.ProductName,
		Price:       *r.Price,
		Quantity:    *r.Quantity,
	}
}

// UserUpdate is the partial-update payload. Every field is optional; a nil
// pointer means "leave unchanged". The merge policy is shallow by top-level
// key: a supplied fullName, hobbies or address value replaces the whole
// sub-object, so callers must send complete sub-objects.
type UserUpdate struct {
	UserID   *int      `json:"userId"`
	Username *string   `json:"username"`
	Password *string   `json:"password"`
	FullName *FullName `json:"fullName"`
	Age      *int      `json:"age"`
	Email    *string   `json:"email" validate:"omitempty,email"`
	IsActive *bool     `json:"isActive"`
	Hobbies  *[]string `json:"hobbies"`
	Address  *Address  `json:"address"`
}

// Apply merges the set fields of the update onto a User, shallow by
// top-level key.
func (u *UserUpdate) Apply(user *User) {
	if u.UserID != nil {
		user.UserID = *u.UserID
	}
	if u.Username != nil {
		user.Username = *u.Username
	}
	if u.Password != nil {
		user.Password = *u.Password
	}
	if u.FullName != nil {
		user.FullName = *u.FullName
	}
	if u.Age != nil {
		user.Age = *u.Age
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.IsActive != nil {
		user.IsActive = *u.IsActive
	}
	if u.Hobbies != nil {
		user.Hobbies = *u.Hobbies
	}
	if u.Address != nil {
		user.Address = *u.Address
	}
}
