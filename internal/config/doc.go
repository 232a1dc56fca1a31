// Package config provides configuration parsing for race projects.
//
// The configuration is stored in race.toml (preferred) or race.json at the
// project root. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	name = "demo"
//
//	[live]
//	host = "localhost"
//	port = 8080
//	title = "Counter"
//	write_timeout = "10s"
//
//	[metrics]
//	enabled = true
//	path = "/metrics"
//	namespace = "race"
//
//	[snapshot]
//	dir = "snapshots"
//
//	[snapshot.s3]
//	bucket = "my-bucket"
//	region = "eu-west-1"
//	prefix = "snapshots/"
//
//	[log]
//	level = "debug"
//	format = "json"
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.Address())
package config
