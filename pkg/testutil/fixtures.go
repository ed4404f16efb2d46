package testutil

// Fixed national ids for deterministic tests.
const (
	NationalID1 = "00000000-0000-4000-8000-000000000001"
	NationalID2 = "00000000-0000-4000-8000-000000000002"
	NationalID3 = "00000000-0000-4000-8000-000000000003"
)
