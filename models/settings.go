package models

import "time"

// SettingsID is the fixed _id of the single settings document.
const SettingsID = "site"

type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	YouTube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	TikTok    string `json:"tiktok,omitempty" bson:"tiktok,omitempty"`
	WhatsApp  string `json:"whatsapp,omitempty" bson:"whatsapp,omitempty"`
}

// Settings holds site-wide contact and business details.
type Settings struct {
	ID            string      `json:"-" bson:"_id"`
	CompanyName   string      `json:"companyName" bson:"companyName"`
	Address       string      `json:"address" bson:"address"`
	Phone         string      `json:"phone" bson:"phone"`
	Email         string      `json:"email" bson:"email"`
	SocialLinks   SocialLinks `json:"socialLinks" bson:"socialLinks"`
	BusinessHours string      `json:"businessHours" bson:"businessHours"`
	MapEmbedURL   string      `json:"mapEmbedUrl" bson:"mapEmbedUrl"`
	CreatedAt     time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt" bson:"updatedAt"`
}
