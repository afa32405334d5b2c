// Package harness runs HTTP conformance scenarios against an in-process
// event log server.
//
// Each scenario gets a fresh database and backup directory, a step clock
// (one second per event) and sequential request ids, so the same scenario
// always produces byte-identical responses.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: add_then_list
//	description: "What this scenario validates"
//	start: 2024-01-01T12:00:00Z     # optional, clock start
//	backups:                        # optional, files created in the backup dir
//	  - name: app-1.db
//	    age_seconds: 120
//	steps:
//	  - get: /add?message=ping
//	    expect:
//	      status: 200
//	      json: { status: added, message: ping }
//	  - get: /consultation
//	    expect:
//	      len: 1
//	      first: { id: 1, message: ping }
//	      match: { timestamp: '^\d{4}-' }   # only for object bodies
//	assertions:
//	  - type: event_count
//	    count: 1
//	  - type: latest_message
//	    message: ping
//
// json and first are subset matches: keys absent from the expectation
// are not checked.
package harness
