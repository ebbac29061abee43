package domain

// Outlet is a QR-coded submission endpoint at the expo floor. Its access
// token gates the shareable deal form.
type Outlet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	BrandName   string `json:"brand_name"`
	AccessToken string `json:"access_token"`
	IsActive    bool   `json:"is_active"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
}

// Brand is a franchise brand offered at the expo, listed on submission forms.
type Brand struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
	Website  string `json:"website"`
	Created  string `json:"created"`
}
