package models

import "time"

// Driver represents a driver document stored in the tbl_driver collection.
// DocID is the store-assigned document key; SequentialID is assigned once by
// the service at creation time and never mutated afterwards.
type Driver struct {
	DocID        string    `bson:"_id,omitempty" json:"docId"`
	SequentialID int64     `bson:"id" json:"id"`
	FirstName    string    `bson:"first_name" json:"firstName"`
	LastName     string    `bson:"last_name" json:"lastName"`
	DOB          time.Time `bson:"dob" json:"dob"`
	Country      string    `bson:"country" json:"country"`
}

// DisplayName is the name the dashboard renders for a driver.
func (d Driver) DisplayName() string {
	return d.FirstName + " " + d.LastName
}

// DriverOption is the projection the team form uses to populate its driver
// selection control.
type DriverOption struct {
	DisplayName string `json:"displayName"`
	DocID       string `json:"docId"`
}
