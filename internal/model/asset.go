package model

// Asset is a downloaded product image. Source keeps the original URL so a
// re-run can be traced back to the vendor file.
type Asset struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Source   string `gorm:"type:text" json:"source"`
	Path     string `gorm:"type:text" json:"path"`
	MimeType string `gorm:"type:varchar(100)" json:"mime_type"`
	Tags     string `gorm:"type:varchar(255)" json:"tags"`
}
