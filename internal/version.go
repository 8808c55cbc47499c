package internal

// Version is the current transcyplate version
const Version = "1.0.18"
