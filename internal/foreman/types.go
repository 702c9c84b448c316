package foreman

// PartitionTable is the server-side representation of a partition table
// template. It is owned by Foreman; we only read and write it through the
// API and never cache it across invocations.
type PartitionTable struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Layout      string `json:"layout"`
	OSFamily    string `json:"os_family,omitempty"`
	LocationIDs []int  `json:"location_ids,omitempty"`
}

// PartitionTableInput is the payload for create and update calls.
type PartitionTableInput struct {
	Name        string `json:"name"`
	Layout      string `json:"layout"`
	OSFamily    string `json:"os_family,omitempty"`
	LocationIDs []int  `json:"location_ids,omitempty"`
}

// Location is a named scoping entity partition tables may be associated
// with.
type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
