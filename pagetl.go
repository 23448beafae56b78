// Package pagetl translates a live HTML page on demand.
//
// A page is held as a page.Document. A trigger.Handler is attached to one of
// its elements; clicking that element sends the page markup to a translation
// provider (Google Cloud Translation by default) and swaps the translated
// markup back into the document.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/pagetl"
//	    "github.com/ZaguanLabs/pagetl/cache"
//	    "github.com/ZaguanLabs/pagetl/page"
//	    "github.com/ZaguanLabs/pagetl/provider"
//	    "github.com/ZaguanLabs/pagetl/trigger"
//	)
//
//	func main() {
//	    p := provider.NewGoogleProvider(provider.GoogleConfig{
//	        APIKey: os.Getenv("GOOGLE_TRANSLATE_API_KEY"),
//	    })
//	    tr := pagetl.NewTranslator(p, pagetl.WithCache(cache.NewInMemoryCache(3600)))
//
//	    doc, _ := page.Parse(markup)
//	    h := trigger.NewHandler(doc, tr, trigger.DefaultConfig())
//	    _ = h.Attach()
//
//	    _ = doc.Check("language", "ja")
//	    _ = doc.Click("translate-button")
//	    h.Wait()
//	    fmt.Println(doc.OuterHTML())
//	}
package pagetl
