package model

import (
	"time"
)

// Profile relations. Son/brother and daughter/sister fix the gender.
const (
	RelationMyself   = "myself"
	RelationDaughter = "daughter"
	RelationSon      = "son"
	RelationSister   = "sister"
	RelationBrother  = "brother"
	RelationOther    = "other"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// ProfileRelations lists the accepted profileRelation values
var ProfileRelations = []string{
	RelationMyself,
	RelationDaughter,
	RelationSon,
	RelationSister,
	RelationBrother,
	RelationOther,
}

// Profile is one matrimonial listing owned by a user account. Profiles are
// never hard-deleted; IsDeleted/IsActive flag them out of every listing.
type Profile struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	UserID          uint   `json:"userId" gorm:"index;not null"`
	ProfileRelation string `json:"profileRelation" gorm:"type:varchar(20);not null;default:'myself'"`
	CustomRelation  string `json:"customRelation,omitempty" gorm:"type:varchar(50)"`

	// Personal
	Name          string `json:"name" gorm:"type:varchar(100);index;not null"`
	Email         string `json:"email" gorm:"type:varchar(100)"`
	Phone         string `json:"phone" gorm:"type:varchar(20)"`
	DOB           string `json:"dob" gorm:"type:varchar(10)"`
	Gender        string `json:"gender" gorm:"type:varchar(10);index"`
	Height        string `json:"height" gorm:"type:varchar(10)"`
	MaritalStatus string `json:"maritalStatus" gorm:"type:varchar(30);index"`
	SpouseName    string `json:"spouseName,omitempty" gorm:"type:varchar(100)"`
	City          string `json:"city" gorm:"type:varchar(50);index"`
	State         string `json:"state" gorm:"type:varchar(50);index"`
	Address       string `json:"address" gorm:"type:text"`

	// Family
	FatherName       string `json:"fatherName" gorm:"type:varchar(100)"`
	FatherOccupation string `json:"fatherOccupation" gorm:"type:varchar(100)"`
	MotherName       string `json:"motherName" gorm:"type:varchar(100)"`
	MotherOccupation string `json:"motherOccupation" gorm:"type:varchar(100)"`
	Siblings         string `json:"siblings" gorm:"type:varchar(255)"`
	FamilyType       string `json:"familyType" gorm:"type:varchar(30)"`
	Gotra            string `json:"gotra" gorm:"type:varchar(50)"`

	// Education and career
	HighestEducation string `json:"highestEducation" gorm:"type:varchar(100)"`
	College          string `json:"college" gorm:"type:varchar(150)"`
	Occupation       string `json:"occupation" gorm:"type:varchar(100)"`
	Company          string `json:"company" gorm:"type:varchar(150)"`
	AnnualIncome     string `json:"annualIncome" gorm:"type:varchar(50)"`

	// Lifestyle
	Diet               string `json:"diet" gorm:"type:varchar(30)"`
	Smoking            string `json:"smoking" gorm:"type:varchar(20)"`
	Drinking           string `json:"drinking" gorm:"type:varchar(20)"`
	Hobbies            string `json:"hobbies" gorm:"type:text"`
	PartnerPreferences string `json:"partnerPreferences" gorm:"type:text"`

	// Photos
	Photo1  string `json:"photo1,omitempty" gorm:"type:varchar(500)"`
	Photo2  string `json:"photo2,omitempty" gorm:"type:varchar(500)"`
	Photo3  string `json:"photo3,omitempty" gorm:"type:varchar(500)"`
	AboutMe string `json:"aboutMe" gorm:"type:text"`

	IsVerified bool      `json:"isVerified" gorm:"default:false"`
	IsPremium  bool      `json:"isPremium" gorm:"default:false"`
	IsActive   bool      `json:"isActive" gorm:"default:true;index"`
	IsDeleted  bool      `json:"isDeleted" gorm:"default:false;index"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Listable reports whether the profile may be shown or receive interest
func (p *Profile) Listable() bool {
	return p.IsActive && !p.IsDeleted
}
