// Command ue-release stages the Teslasuit Unreal Engine plugin and its demo
// project into the "Unreal Engine Release" folder of the working directory.
package main

import "github.com/oshokin/ue-release/cmd/ue-release/cmd"

func main() {
	cmd.Execute()
}
