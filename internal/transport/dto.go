package transport

type CredentialsRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	IsAdmin  bool   `json:"isAdmin"  form:"isAdmin"`
}

// ProductRequest is a full replacement of a product's fields.
type ProductRequest struct {
	Name    string   `json:"name"    form:"name"    validate:"required"`
	Price   *float64 `json:"price"   form:"price"   validate:"required,gte=0"`
	Formula string   `json:"formula" form:"formula" validate:"required"`
}

type QuantityRequest struct {
	Quantity *int `json:"quantity" form:"quantity" validate:"required,gte=1"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
