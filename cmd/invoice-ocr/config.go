package main

import "time"

// defaultWatchDebounce gives phones and scanners time to finish writing a file
const defaultWatchDebounce = 2 * time.Second
