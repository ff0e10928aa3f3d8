// Ambient configuration for the file backend.
package cyclicdb

// Config holds the options a caller may tune when opening or creating a
// file-backed table. The zero Config is valid; DefaultConfig fills in
// the values CyclicDB uses when none are given.
type Config struct {
	// ReadBuffer sizes the positional-read scratch buffer the file
	// backend allocates once and reuses across Get calls. It is raised
	// to the record size automatically if set smaller.
	ReadBuffer int

	// Sync calls fsync after every structural mutation's content-index
	// write, trading throughput for durability against an OS crash.
	Sync bool
}

// DefaultConfig returns the configuration used when a caller passes the
// zero Config: a 64KB read buffer, fsync disabled.
func DefaultConfig() Config {
	return Config{ReadBuffer: 64 * 1024, Sync: false}
}

func (c Config) withDefaults() Config {
	if c.ReadBuffer == 0 {
		c.ReadBuffer = 64 * 1024
	}
	return c
}
