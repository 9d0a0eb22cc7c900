// Command mbpatch resolves flashable ROM archives to patch profiles and
// rewrites them for multi-boot installation.
package main

func main() {
	Execute()
}
