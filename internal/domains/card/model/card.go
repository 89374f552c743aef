package model

// Mode là các marker trên query string, chỉ đổi cách render
type Mode struct {
	Admin    bool `json:"admin"`
	Download bool `json:"download"`
}

// Link là một giá trị hiển thị kèm href (tel:, mailto:, https://)
type Link struct {
	Display string `json:"display"`
	Href    string `json:"href"`
}

type Photo struct {
	URL         string `json:"url"`
	FallbackURL string `json:"fallback_url"`
}

// QR luôn encode base link, không bao giờ kèm mode markers
type QR struct {
	Link    string `json:"link"`
	DataURL string `json:"data_url"`
	PNG     []byte `json:"-"`
}

// Card là phần sẽ được raster thành PNG và encode thành vCard
type Card struct {
	EmployeeID  string `json:"employee_id"`
	Photo       Photo  `json:"photo"`
	FullName    string `json:"full_name"`
	Designation string `json:"designation"`
	Company     string `json:"company"`
	Phone       Link   `json:"phone"`
	Email       Link   `json:"email"`
	Address     string `json:"address"`
	Website     Link   `json:"website"`
	QR          QR     `json:"qr"`
}

// Footer là company footer của public mode
type Footer struct {
	CompanyName string `json:"company_name"`
	Email       Link   `json:"email"`
	Website     Link   `json:"website"`
	LogoURL     string `json:"logo_url"`
}

// CardView là kết quả của Renderer.Render
// Found=false là trạng thái "not found", không phải error
type CardView struct {
	Found     bool   `json:"found"`
	Card      *Card  `json:"card,omitempty"`
	Mode      Mode   `json:"mode"`
	ShareLink string `json:"share_link"`
	Footer    Footer `json:"footer"`
}
