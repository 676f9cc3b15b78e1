package cadence

// Version is the cadence release version.
const Version = "0.4.1"
