// Command bingo deals name bingo cards. It either writes a single HTML card and
// exits, or serves a freshly shuffled card on every HTTP request.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
