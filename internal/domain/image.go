package domain

import "time"

// Image represents one tray photograph in the catalog.
//
// Hash is the hex SHA-256 digest of the stored (re-encoded) bytes and is
// the public lookup key for blob retrieval. It carries a unique index so
// byte-identical ingests collapse to a single row. Blob holds the encoded
// image when the inline storage driver is active; with an object-storage
// driver the bytes live under StorageKey instead and Blob stays empty.
type Image struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:text" json:"name"`
	Hash       string    `gorm:"type:text;not null;uniqueIndex:idx_images_hash" json:"hashid"`
	Blob       []byte    `gorm:"type:blob" json:"-"`
	StorageKey string    `gorm:"type:text" json:"-"`
	Format     string    `gorm:"type:text" json:"format"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	FileSize   int64     `json:"file_size"`
	CreatedAt  time.Time `json:"created_at"`

	// Provenance recorded at ingest time. All optional.
	TrayName   string  `gorm:"type:text" json:"trayname"`
	HoleID     int     `json:"hole_id"`
	LoadName   string  `gorm:"type:text" json:"loadname"`
	Project    string  `gorm:"type:text" json:"project"`
	Sample     string  `gorm:"type:text" json:"sample"`
	Material   string  `gorm:"type:text" json:"material"`
	Identifier string  `gorm:"type:text" json:"identifier"`
	Weight     float64 `json:"weight"`
	NXtals     int     `json:"nxtals"`
	Note       string  `gorm:"type:text" json:"note"`
}

// TableName returns the database table name for Image.
func (Image) TableName() string {
	return "images"
}

// ImageInfo is the metadata view returned on browse paths. It carries
// everything a client needs to fetch the blob without the blob itself.
type ImageInfo struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Hash     string `json:"hashid"`
	TrayName string `json:"trayname"`
	HoleID   int    `json:"hole_id"`
	LoadName string `json:"loadname"`
}

// Info projects an Image onto its metadata view.
func (i *Image) Info() *ImageInfo {
	return &ImageInfo{
		ID:       i.ID,
		Name:     i.Name,
		Hash:     i.Hash,
		TrayName: i.TrayName,
		HoleID:   i.HoleID,
		LoadName: i.LoadName,
	}
}
