// Command poolctl drives a worker pool with simulated device workloads
// and prints what the pool did.
package main

func main() {
	Execute()
}
