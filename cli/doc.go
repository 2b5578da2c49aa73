// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cli defines the votedesk commands.

	votedesk serve                      serve the desk API
	votedesk migrate                    create the schema and exit
	votedesk sessions <election-id>     list voting sessions
	votedesk results <election-id>      print the tally of a completed election
	    --session ACME-007-1001         pick a session (default: latest)

Every command accepts the configuration flags from package cliparse.
*/
package cli
