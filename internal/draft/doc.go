// Package draft reads cluster configuration drafts from disk into the
// native tree shape used by the wizard store.
//
// YAML drafts (.yaml, .yml) are the cluster configuration format itself.
// HCL drafts (.hcl) express the same document with attributes and blocks:
//
//	Region = "eu-west-1"
//
//	HeadNode {
//	  InstanceType = "t2.micro"
//	}
//
//	Scheduling {
//	  Scheduler = "slurm"
//	  SlurmQueues "queue-1" {
//	    ComputeResources = [{ Name = "queue-1-c5nlarge", InstanceType = "c5n.large", MinCount = 0, MaxCount = 4 }]
//	  }
//	}
//
// An unlabeled block becomes a map and may appear once per body. Labeled
// blocks of one type become a list whose entries carry the label as Name.
//
// A directory is loaded by merging every draft file below it in lexical
// order; later files win key by key, lists are replaced whole.
package draft
