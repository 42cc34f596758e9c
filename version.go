package procman

// Version is the current version of the go-procman library
const Version = "1.0.0"
