package main

import (
	"github.com/qkepia/muhpixels/cmdmain"
	_ "github.com/qkepia/muhpixels/subcmd"
)

func main() {
	cmdmain.Main()
}
