package models

// Team represents a team document stored in the tbl_team collection.
// DriverRefs holds document keys of member drivers; referential integrity is
// not enforced, so a ref may point at a driver that no longer exists.
type Team struct {
	DocID        string   `bson:"_id,omitempty" json:"docId"`
	SequentialID int64    `bson:"id" json:"id"`
	Name         string   `bson:"name" json:"name"`
	Country      string   `bson:"country" json:"country"`
	DriverRefs   []string `bson:"id_driver" json:"driverRefs"`
}

// TeamView is a Team with its driver refs resolved to display names for
// rendering. A dangling ref resolves to the raw document key.
type TeamView struct {
	Team
	DriverNames []string `json:"driverNames"`
}
