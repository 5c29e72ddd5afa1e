// Command weathertag matches photos to an environmental measurement log by
// capture time and, on request, writes the matched temperature, humidity and
// pressure into each photo's EXIF metadata.
//
// Subcommands:
//
//	match    preview or apply readings to a photo directory
//	log      inspect how a measurement log parses
//	check    verify exiftool and directory access
//	history  list and inspect earlier runs
//	config   create, validate and print configuration
package main
