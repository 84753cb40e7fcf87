package router_test

import (
	"context"
	"fmt"

	router "github.com/conveyGhost/next.js"
)

func ExampleReducer_Reduce() {
	ctx := context.Background()
	page := router.NewRouteTree(router.StaticSegment(router.PageSegmentKey))
	tree := router.NewRouteTree(router.StaticSegment(""),
		router.ChildrenSlot, router.NewRouteTree(router.StaticSegment("blog"), router.ChildrenSlot, page))
	state := router.NewState("/blog", tree, nil, nil)

	data, err := router.ParseFlightData([]byte(`[[
		"children", "blog", "children", ["slug", "hello", "d"],
		[["slug", "hello", "d"], {"children": ["__PAGE__", {}]}],
		[["slug", "hello", "d"], {"children": ["__PAGE__", {}, "<p>hello</p>"]}, "<article/>"],
		null
	]]`))
	if err != nil {
		panic(err)
	}
	reducer, err := router.NewReducer(router.Config{})
	if err != nil {
		panic(err)
	}
	next := reducer.Reduce(ctx, state, router.ServerPatchAction{
		ServerResponse: router.ServerResponse{FlightData: data},
	})

	fmt.Println(next.NextURL)
	fmt.Print(router.DescribeDiff(state.Tree, next.Tree))
	fmt.Print(next.Tree)
	// Output:
	// /blog/hello
	// replaced /@children/blog/@children
	// "" {
	//   @children:
	//     blog {
	//       @children:
	//         [slug|hello|d] {
	//           @children:
	//             __PAGE__ refresh=/blog
	//         }
	//     }
	// }
}

func ExampleFingerprinter_Fingerprint() {
	fp := router.NewFingerprinter(router.NewNodeCache(16))
	a := router.NewRouteTree(router.StaticSegment(""), router.ChildrenSlot, router.NewRouteTree(router.StaticSegment("blog")))
	b := router.NewRouteTree(router.StaticSegment(""), router.ChildrenSlot, router.NewRouteTree(router.StaticSegment("blog")))
	fmt.Println(fp.Fingerprint(a) == fp.Fingerprint(b))
	// Output:
	// true
}
