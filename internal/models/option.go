package models

// OptionModel is the flat key-value namespace backing runtime config,
// preferences and the saved-verses list.
type OptionModel struct {
	Base
	Name  string `json:"name"  gorm:"uniqueIndex;not null"`
	Value string `json:"value" gorm:"type:longtext"`
}

func (OptionModel) TableName() string { return "options" }
