// Command zenctl is a small reference CLI over the zen archive
// library: it round-trips a demo "person" record through both codecs
// and can pretty-print a text-format archive file.
package main

func main() {
	execute()
}
