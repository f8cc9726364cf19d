//go:build darwin

package permissions

/*
#cgo LDFLAGS: -framework AVFoundation -framework CoreGraphics
#import <AVFoundation/AVFoundation.h>
#import <CoreGraphics/CoreGraphics.h>

int checkMicrophonePermission() {
    AVAuthorizationStatus status = [AVCaptureDevice authorizationStatusForMediaType:AVMediaTypeAudio];
    return (int)status;
}

void requestMicrophonePermission() {
    [AVCaptureDevice requestAccessForMediaType:AVMediaTypeAudio completionHandler:^(BOOL granted) {}];
}

int checkScreenCapturePermission() {
    return CGPreflightScreenCaptureAccess() ? 1 : 0;
}

void requestScreenCapturePermission() {
    CGRequestScreenCaptureAccess();
}
*/
import "C"

func platformCheck() Report {
	rep := Report{
		Microphone:    Status(C.checkMicrophonePermission()),
		ScreenCapture: Denied,
	}
	if C.checkScreenCapturePermission() == 1 {
		rep.ScreenCapture = Authorized
	}
	return rep
}

func platformRequest(rep Report) {
	if rep.Microphone == NotDetermined {
		C.requestMicrophonePermission()
	}
	if rep.ScreenCapture != Authorized {
		// Shows the prompt once; later calls only return the current state
		C.requestScreenCapturePermission()
	}
}
