// Package integrationtests runs the whole wizard pipeline against drafts on
// disk, a fake region loader and an in-process cluster API.
package integrationtests
