// Command carbwise searches the food catalog and estimates meals from the
// terminal.
package main

func main() {
	Execute()
}
