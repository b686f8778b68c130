// Package async provides a small Future abstraction for the generation
// calls that must not block the render loop. A Future resolves exactly
// once; callers poll with IsComplete, select on Done, or block with Await.
package async
