package tele

import "fmt"

func TopicConnect(vmid int32) string   { return fmt.Sprintf("vm%d/c", vmid) }
func TopicError(vmid int32) string     { return fmt.Sprintf("vm%d/w/1e", vmid) }
func TopicTelemetry(vmid int32) string { return fmt.Sprintf("vm%d/w/1t", vmid) }
