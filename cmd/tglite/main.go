// Command tglite drives a Telegram bot from the shell.
//
// Configuration comes from TGLITE_* environment variables, see
// tglite.LoadConfig. Flags override them.
package main

func main() {
	Execute()
}
