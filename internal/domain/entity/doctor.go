package entity

import "time"

// Doctor is one row of the doctors table. Latitude and Longitude are meant
// to be set together; the table itself does not enforce it.
type Doctor struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName   string    `gorm:"column:first_name;type:text;not null" json:"first_name"`
	LastName    string    `gorm:"column:last_name;type:text;not null" json:"last_name"`
	BirthDate   time.Time `gorm:"column:birth_date;type:date;not null" json:"birth_date"`
	Specialty   string    `gorm:"type:text;not null" json:"specialty"`
	Area        string    `gorm:"type:text;not null" json:"area"`
	Institution string    `gorm:"type:text;not null" json:"institution"`
	Email       string    `gorm:"type:text;not null" json:"email"`
	PhoneNumber string    `gorm:"column:phone_number;type:text;not null" json:"phone_number"`
	Latitude    *float64  `gorm:"type:double precision" json:"latitude"`
	Longitude   *float64  `gorm:"type:double precision" json:"longitude"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// HasLocation reports whether both coordinates are present.
func (d *Doctor) HasLocation() bool {
	return d.Latitude != nil && d.Longitude != nil
}
